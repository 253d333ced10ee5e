// Package backend defines the only seam between the engine and the
// operating system: hook installation, the scan-code mapping, and
// event injection. Platform implementations live in subpackages.
package backend

import (
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// Vote is a hook's decision on whether the OS should keep the event
// from other applications.
type Vote int

const (
	// Allow lets the event through to other processes.
	Allow Vote = iota
	// Suppress drops the event before other processes see it.
	Suppress
)

// HookFunc receives each event on the backend's own thread and
// returns the suppression decision.
type HookFunc func(keyevent.Event) Vote

// HookHandle identifies an installed hook for removal.
type HookHandle interface {
	Uninstall() error
}

// Backend is the capability set a platform must provide.
type Backend interface {
	// Init prepares the backend. It is called once before any other
	// method and reports missing privileges or unsupported platforms.
	Init() error
	// Shutdown releases all backend resources.
	Shutdown() error
	// Mapping enumerates (scan code, canonical name, is keypad) rows
	// establishing the name table. A code may appear more than once
	// when it carries several names.
	Mapping() ([]keyname.Entry, error)
	// InstallHook starts delivering events to fn from the backend's
	// thread. onError reports an unrecoverable failure on that thread
	// after installation (device gone, tap died); the backend stops
	// delivering once it has been called. wantsSuppression tells
	// backends whose suppression has a cost (exclusive grabs) whether
	// fn's votes will ever matter.
	InstallHook(fn HookFunc, onError func(error), wantsSuppression bool) (HookHandle, error)
	// Press synthesizes a single key-down for the scan code.
	Press(code uint16) error
	// Release synthesizes a single key-up for the scan code.
	Release(code uint16) error
	// TypeUnicode produces a character absent from the layout by the
	// platform's best-effort mechanism.
	TypeUnicode(r rune) error
	// TagsInjected reports whether synthesized events are flagged so
	// the hook can distinguish them from user input.
	TagsInjected() bool
}
