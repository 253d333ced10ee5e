// Package keyweave is a global keyboard hook and hotkey engine: it
// observes every physical key event regardless of window focus,
// recognizes multi-step hotkey sequences, synthesizes events back to
// the OS, suppresses events before other applications see them,
// replays recordings, and performs text-trigger substitutions.
//
// The Engine owns the single process-wide event tap through a
// backend.Backend; a process-wide singleton wrapper in keyweave.go
// provides the same API as free functions.
package keyweave

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// Engine owns the backend event stream and fans events out to hooks,
// the hotkey matcher, recorders, and word listeners.
type Engine struct {
	backend backend.Backend
	logger  *log.Logger

	tableMu sync.RWMutex
	table   *keyname.Table

	mu            sync.Mutex
	hooks         []*hookReg
	handle        backend.HookHandle
	installed     bool
	suppressionOn bool
	dead          error

	pressedMu sync.RWMutex
	pressed   map[uint16]struct{}

	matcher *matcher

	sendMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once

	// syncCallbacks runs user callbacks inline instead of on a
	// detached goroutine. Tests against the fake backend use it to
	// observe callback effects deterministically.
	syncCallbacks bool
}

// New initializes the backend, loads its name mapping, and returns a
// ready Engine. A nil logger discards diagnostics.
func New(b backend.Backend, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("%w: init: %v", ErrBackendUnavailable, err)
	}
	e := &Engine{
		backend: b,
		logger:  logger,
		pressed: make(map[uint16]struct{}),
		closed:  make(chan struct{}),
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	e.matcher = newMatcher(e)
	return e, nil
}

// Reload rebuilds the name table from the backend mapping. Concurrent
// readers see either the old or the new table, never a partial one.
func (e *Engine) Reload() error {
	entries, err := e.backend.Mapping()
	if err != nil {
		return fmt.Errorf("%w: mapping: %v", ErrBackendUnavailable, err)
	}
	table := keyname.NewTable(entries)
	e.tableMu.Lock()
	e.table = table
	e.tableMu.Unlock()
	return nil
}

// Table returns the current name table snapshot.
func (e *Engine) Table() *keyname.Table {
	e.tableMu.RLock()
	defer e.tableMu.RUnlock()
	return e.table
}

// Shutdown uninstalls the hook, stops the backend, and unblocks every
// waiting reader. Subsequent calls that need the hub report
// ErrBackendUnavailable.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	handle := e.handle
	e.handle = nil
	e.installed = false
	if e.dead == nil {
		e.dead = ErrBackendUnavailable
	}
	e.mu.Unlock()
	e.closeOnce.Do(func() { close(e.closed) })
	if handle != nil {
		if err := handle.Uninstall(); err != nil {
			e.logger.Printf("uninstall hook: %v", err)
		}
	}
	return e.backend.Shutdown()
}

// teardown marks the hub dead after a backend error on the hub thread.
func (e *Engine) teardown(err error) {
	e.logger.Printf("hub teardown: %v", err)
	e.mu.Lock()
	if e.dead == nil {
		e.dead = fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	e.installed = false
	e.handle = nil
	e.mu.Unlock()
	e.closeOnce.Do(func() { close(e.closed) })
}

// ensureHubLocked installs the backend hook on first use, asking for
// OS-level suppression only when the registration at hand can vote
// suppress. A suppression-capable consumer arriving after an
// observe-only install reinstalls the hook with suppression enabled;
// events arriving during the swap are lost. Installation failures
// surface synchronously on the caller's goroutine.
func (e *Engine) ensureHubLocked(wantsSuppression bool) error {
	if e.dead != nil {
		return e.dead
	}
	if e.installed {
		if !wantsSuppression || e.suppressionOn {
			return nil
		}
		if e.handle != nil {
			if err := e.handle.Uninstall(); err != nil {
				e.logger.Printf("uninstall hook for suppression upgrade: %v", err)
			}
		}
		e.installed = false
		e.handle = nil
	}
	handle, err := e.backend.InstallHook(e.dispatch, e.teardown, wantsSuppression)
	if err != nil {
		return fmt.Errorf("%w: install hook: %v", ErrBackendUnavailable, err)
	}
	e.handle = handle
	e.installed = true
	e.suppressionOn = wantsSuppression
	return nil
}

// dispatch runs on the backend's hook thread. It updates the pressed
// set, snapshots modifiers into the event, and invokes every live
// hook in registration order: suppression-capable hooks vote first so
// slow observers never delay the synchronous decision.
func (e *Engine) dispatch(ev keyevent.Event) backend.Vote {
	e.pressedMu.Lock()
	switch ev.Type {
	case keyevent.KeyDown:
		e.pressed[ev.ScanCode] = struct{}{}
	case keyevent.KeyUp:
		delete(e.pressed, ev.ScanCode)
	}
	e.pressedMu.Unlock()

	ev.Modifiers = e.modifierSnapshot()

	e.mu.Lock()
	hooks := make([]*hookReg, len(e.hooks))
	copy(hooks, e.hooks)
	e.mu.Unlock()

	vote := backend.Allow
	for _, h := range hooks {
		if h.suppressing && h.matches(ev) {
			if h.fn(ev) == backend.Suppress {
				vote = backend.Suppress
			}
		}
	}
	// Observers run after the decision and get to see it.
	ev.Suppressed = vote == backend.Suppress
	for _, h := range hooks {
		if !h.suppressing && h.matches(ev) {
			h.fn(ev)
		}
	}
	return vote
}

// modifierSnapshot names the currently-held modifier keys.
func (e *Engine) modifierSnapshot() []string {
	table := e.Table()
	e.pressedMu.RLock()
	codes := make([]uint16, 0, len(e.pressed))
	for c := range e.pressed {
		codes = append(codes, c)
	}
	e.pressedMu.RUnlock()

	var mods []string
	seen := make(map[string]bool)
	for _, c := range codes {
		name := table.Name(c, false)
		if name != "" && keyname.IsModifier(name) && !seen[name] {
			seen[name] = true
			mods = append(mods, name)
		}
	}
	sort.Strings(mods)
	return mods
}

// isCodePressed reports whether the hub has seen more downs than ups
// for the code.
func (e *Engine) isCodePressed(code uint16) bool {
	e.pressedMu.RLock()
	defer e.pressedMu.RUnlock()
	_, ok := e.pressed[code]
	return ok
}

// PressedCodes returns the currently-down scan codes in ascending
// order. Readers off the hub thread see a weakly-consistent view.
func (e *Engine) PressedCodes() []uint16 {
	e.pressedMu.RLock()
	codes := make([]uint16, 0, len(e.pressed))
	for c := range e.pressed {
		codes = append(codes, c)
	}
	e.pressedMu.RUnlock()
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// IsPressed reports whether a key (or a single-step chord like
// "ctrl+shift") is currently held.
func (e *Engine) IsPressed(key string) (bool, error) {
	h, err := e.ParseHotkey(key)
	if err != nil {
		return false, err
	}
	if len(h.steps) != 1 {
		return false, fmt.Errorf("%w: IsPressed takes a single step, got %q", ErrParse, key)
	}
	for _, class := range h.steps[0] {
		held := false
		for _, code := range class {
			if e.isCodePressed(code) {
				held = true
				break
			}
		}
		if !held {
			return false, nil
		}
	}
	return true, nil
}

// spawn runs a user callback on a detached goroutine, recovering and
// logging panics so they never reach the hub thread.
func (e *Engine) spawn(fn func()) {
	call := func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Printf("callback panic: %v", r)
			}
		}()
		fn()
	}
	if e.syncCallbacks {
		call()
		return
	}
	go call()
}
