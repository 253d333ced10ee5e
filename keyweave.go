package keyweave

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

// The process-wide engine behind the free-function API. It is built
// lazily from the platform backend on first use.
var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
	defaultErr    error
)

// Default returns the process-wide Engine, creating it on first use
// with the platform backend and default options. The creation error
// is sticky: every later call reports it until Reset.
func Default() (*Engine, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil && defaultErr == nil {
		b, err := NewSystemBackend(SystemOptions{})
		if err != nil {
			defaultErr = err
			return nil, err
		}
		defaultEngine, defaultErr = New(b, log.Default())
	}
	return defaultEngine, defaultErr
}

// Reset shuts down and forgets the process-wide Engine. Mainly for
// tests and for re-initializing after a backend failure.
func Reset() {
	defaultMu.Lock()
	e := defaultEngine
	defaultEngine = nil
	defaultErr = nil
	defaultMu.Unlock()
	if e != nil {
		_ = e.Shutdown()
	}
}

// Free-function mirrors of the Engine API, operating on Default().

// Hook registers fn for every event.
func Hook(fn backend.HookFunc, suppress bool) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.Hook(fn, suppress)
}

// OnPress registers an observer for key-down events.
func OnPress(fn func(keyevent.Event)) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.OnPress(fn)
}

// OnRelease registers an observer for key-up events.
func OnRelease(fn func(keyevent.Event)) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.OnRelease(fn)
}

// AddHotkey registers a callback for a hotkey string.
func AddHotkey(spec string, callback func(), opts *HotkeyOptions) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.AddHotkey(spec, callback, opts)
}

// RemoveHotkey drops a hotkey registration.
func RemoveHotkey(id uuid.UUID) bool {
	e, err := Default()
	if err != nil {
		return false
	}
	return e.RemoveHotkey(id)
}

// Unhook removes a hook registration.
func Unhook(id uuid.UUID) bool {
	e, err := Default()
	if err != nil {
		return false
	}
	return e.Unhook(id)
}

// UnhookAll removes every hook and hotkey registration.
func UnhookAll() {
	if e, err := Default(); err == nil {
		e.UnhookAll()
	}
}

// IsPressed reports whether a key or single-step chord is held.
func IsPressed(key string) (bool, error) {
	e, err := Default()
	if err != nil {
		return false, err
	}
	return e.IsPressed(key)
}

// BlockKey suppresses a key system-wide.
func BlockKey(key string) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.BlockKey(key)
}

// RemapKey blocks src and synthesizes dst in its place.
func RemapKey(src, dst string) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.RemapKey(src, dst)
}

// Press synthesizes key-downs for a hotkey.
func Press(spec string) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Press(spec)
}

// Release synthesizes key-ups for a hotkey.
func Release(spec string) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Release(spec)
}

// Send presses and releases a hotkey.
func Send(spec string) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Send(spec)
}

// Write types text into the focused application.
func Write(text string, opts *WriteOptions) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Write(text, opts)
}

// AddWordListener fires callback when word is typed and triggered.
func AddWordListener(word string, callback func(), opts *WordOptions) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.AddWordListener(word, callback, opts)
}

// AddAbbreviation replaces source with replacement as it is typed.
func AddAbbreviation(source, replacement string) (uuid.UUID, error) {
	e, err := Default()
	if err != nil {
		return uuid.Nil, err
	}
	return e.AddAbbreviation(source, replacement)
}

// Record captures events until the hotkey fires.
func Record(until string) ([]keyevent.Event, error) {
	e, err := Default()
	if err != nil {
		return nil, err
	}
	return e.Record(until)
}

// Play replays a recorded event list.
func Play(events []keyevent.Event, speedFactor float64) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Play(events, speedFactor)
}

// Wait blocks until the hotkey fires.
func Wait(spec string) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Wait(spec)
}

// ReadEvent blocks until the next event arrives.
func ReadEvent(timeout time.Duration) (keyevent.Event, error) {
	e, err := Default()
	if err != nil {
		return keyevent.Event{}, err
	}
	return e.ReadEvent(timeout)
}

// ReadKey blocks until a key goes down and returns its name.
func ReadKey(timeout time.Duration) (string, error) {
	e, err := Default()
	if err != nil {
		return "", err
	}
	return e.ReadKey(timeout)
}

// ReadHotkey blocks until a full hotkey is pressed and names it.
func ReadHotkey(timeout time.Duration) (string, error) {
	e, err := Default()
	if err != nil {
		return "", err
	}
	return e.ReadHotkey(timeout)
}
