package keyweave

import (
	"fmt"
	"time"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// ReadEvent blocks until the next event arrives. A non-positive
// timeout waits forever. Engine shutdown unblocks the call with
// ErrBackendUnavailable.
func (e *Engine) ReadEvent(timeout time.Duration) (keyevent.Event, error) {
	ch := make(chan keyevent.Event, 1)
	id, err := e.Hook(func(ev keyevent.Event) backend.Vote {
		select {
		case ch <- ev:
		default:
		}
		return backend.Allow
	}, false)
	if err != nil {
		return keyevent.Event{}, err
	}
	defer e.Unhook(id)

	var expire <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expire = t.C
	}
	select {
	case ev := <-ch:
		return ev, nil
	case <-expire:
		return keyevent.Event{}, ErrTimeout
	case <-e.closed:
		return keyevent.Event{}, ErrBackendUnavailable
	}
}

// ReadKey blocks until a key goes down and returns its name.
func (e *Engine) ReadKey(timeout time.Duration) (string, error) {
	ch := make(chan string, 1)
	id, err := e.Hook(func(ev keyevent.Event) backend.Vote {
		if ev.Type == keyevent.KeyDown && !ev.Injected {
			select {
			case ch <- ev.Name:
			default:
			}
		}
		return backend.Allow
	}, false)
	if err != nil {
		return "", err
	}
	defer e.Unhook(id)
	return e.awaitString(ch, timeout)
}

// ReadHotkey blocks until a non-modifier key goes down and returns
// the canonical hotkey name built from it and the modifiers held at
// that moment (e.g. "ctrl+shift+p").
func (e *Engine) ReadHotkey(timeout time.Duration) (string, error) {
	ch := make(chan string, 1)
	id, err := e.Hook(func(ev keyevent.Event) backend.Vote {
		if ev.Type != keyevent.KeyDown || ev.Injected {
			return backend.Allow
		}
		name := keyname.Normalize(ev.Name)
		if name == "" || keyname.IsModifier(name) {
			return backend.Allow
		}
		parts := append(append([]string(nil), ev.Modifiers...), name)
		select {
		case ch <- GetHotkeyName(parts):
		default:
		}
		return backend.Allow
	}, false)
	if err != nil {
		return "", err
	}
	defer e.Unhook(id)
	return e.awaitString(ch, timeout)
}

func (e *Engine) awaitString(ch <-chan string, timeout time.Duration) (string, error) {
	var expire <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expire = t.C
	}
	select {
	case s := <-ch:
		return s, nil
	case <-expire:
		return "", ErrTimeout
	case <-e.closed:
		return "", ErrBackendUnavailable
	}
}

// Wait blocks until the hotkey fires. It is a transient registration
// signalled through a channel; engine shutdown acts as a poison pill
// and unblocks the call with an error.
func (e *Engine) Wait(spec string) error {
	done := make(chan struct{}, 1)
	id, err := e.AddHotkey(spec, func() {
		select {
		case done <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		return err
	}
	defer e.RemoveHotkey(id)

	select {
	case <-done:
		return nil
	case <-e.closed:
		return fmt.Errorf("%w: engine shut down while waiting for %q", ErrBackendUnavailable, spec)
	}
}
