//go:build !linux && !darwin

package keyweave

import (
	"fmt"
	"runtime"

	"github.com/Danondso/keyweave/backend"
)

// SystemOptions configure the platform backend.
type SystemOptions struct {
	// Device selects an input device on platforms that expose one.
	Device string
}

// NewSystemBackend reports that no backend exists for this platform.
func NewSystemBackend(opts SystemOptions) (backend.Backend, error) {
	return nil, fmt.Errorf("%w: no backend for %s", ErrBackendUnavailable, runtime.GOOS)
}
