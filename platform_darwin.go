//go:build darwin

package keyweave

import (
	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/backend/quartz"
)

// SystemOptions configure the platform backend.
type SystemOptions struct {
	// Device selects an input device on platforms that expose one;
	// ignored on macOS, where the event tap sees every keyboard.
	Device string
}

// NewSystemBackend returns the Quartz event-tap backend. The host
// process must enter through quartz.Main so the tap run loop owns the
// main thread.
func NewSystemBackend(opts SystemOptions) (backend.Backend, error) {
	return quartz.New(), nil
}
