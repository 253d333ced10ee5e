//go:build linux

package keyweave

import (
	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/backend/evdev"
)

// SystemOptions configure the platform backend.
type SystemOptions struct {
	// Device is an explicit input device path such as
	// /dev/input/event3; empty auto-detects a keyboard.
	Device string
}

// NewSystemBackend returns the evdev backend for this platform.
func NewSystemBackend(opts SystemOptions) (backend.Backend, error) {
	return evdev.New(evdev.Options{Device: opts.Device}), nil
}
