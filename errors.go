package keyweave

import (
	"errors"

	"github.com/Danondso/keyweave/keyname"
)

var (
	// ErrUnknownKey reports a name or scan code that does not resolve.
	ErrUnknownKey = keyname.ErrUnknownKey
	// ErrParse reports a syntactically invalid hotkey string.
	ErrParse = errors.New("invalid hotkey")
	// ErrBackendUnavailable reports that the OS hook cannot be
	// installed or that the engine has been shut down.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInjectionFailed reports that the backend rejected a
	// synthesized event.
	ErrInjectionFailed = errors.New("injection failed")
	// ErrTimeout reports that a blocking read saw nothing in time.
	ErrTimeout = errors.New("timed out")
)
