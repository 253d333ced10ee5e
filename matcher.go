package keyweave

import (
	"time"

	"github.com/google/uuid"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

// DefaultHotkeyTimeout is the allowed gap between consecutive step
// completions of a multi-step hotkey.
const DefaultHotkeyTimeout = time.Second

// HotkeyOptions tune one hotkey registration.
type HotkeyOptions struct {
	// Suppress drops the matched keys before other applications see
	// them: the key that completes any step (the first, intermediate
	// and final ones), and any key press belonging to the pending step
	// while the registration is mid-sequence.
	Suppress bool
	// Timeout is the allowed gap between step completions; zero means
	// DefaultHotkeyTimeout.
	Timeout time.Duration
	// TriggerOnRelease defers the callback to the first key-up of the
	// final step instead of firing on its completing key-down.
	TriggerOnRelease bool
}

// hotkeyReg tracks one registered hotkey: a cursor over its steps and
// the deadline for the next completion, both in event-time seconds so
// replayed and live streams behave identically.
type hotkeyReg struct {
	id       uuid.UUID
	hotkey   Hotkey
	callback func()
	opts     HotkeyOptions
	timeout  float64

	step     int
	deadline float64
	armed    map[uint16]bool
}

func (r *hotkeyReg) lastStep() int { return len(r.hotkey.steps) - 1 }

// inPendingStep reports whether a code belongs to the step the
// registration is currently waiting on.
func (r *hotkeyReg) inPendingStep(code uint16) bool {
	return r.hotkey.stepCodes(r.step)[code]
}

// completes reports whether the current down event finishes the
// pending step: some combination has every other code already down
// and the event's code as a member.
func (r *hotkeyReg) completes(ev keyevent.Event, pressed func(uint16) bool) bool {
	for _, combo := range r.hotkey.combinations(r.step) {
		includesEvent := false
		othersDown := true
		for _, code := range combo {
			if code == ev.ScanCode {
				includesEvent = true
				continue
			}
			if !pressed(code) {
				othersDown = false
				break
			}
		}
		if includesEvent && othersDown {
			return true
		}
	}
	return false
}

// matcher is the state machine over the dispatched event stream. All
// matching runs synchronously on the hub thread; only the user
// callback is offloaded.
type matcher struct {
	e *Engine

	// regs and order are guarded by the engine's registration mutex
	// so that add/remove and UnhookAll stay consistent with hook
	// bookkeeping. The map gives O(1) removal by id; order preserves
	// registration order for iteration and may carry ids of removed
	// registrations until the next compaction.
	regs          map[uuid.UUID]*hotkeyReg
	order         []uuid.UUID
	hookID        uuid.UUID
	hookInstalled bool
}

func newMatcher(e *Engine) *matcher {
	return &matcher{e: e, regs: make(map[uuid.UUID]*hotkeyReg)}
}

// add registers a hotkey and installs the matcher's hub hook on first
// use. Called with no locks held.
func (m *matcher) add(reg *hotkeyReg) (uuid.UUID, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	if err := m.e.ensureHubLocked(reg.opts.Suppress); err != nil {
		return uuid.Nil, err
	}
	if !m.hookInstalled {
		h := &hookReg{fn: m.onEvent, suppressing: true, id: uuid.New()}
		m.e.hooks = append(m.e.hooks, h)
		m.hookID = h.id
		m.hookInstalled = true
	}
	reg.id = uuid.New()
	m.regs[reg.id] = reg
	m.order = append(m.order, reg.id)
	return reg.id, nil
}

func (m *matcher) remove(id uuid.UUID) bool {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	if _, ok := m.regs[id]; !ok {
		return false
	}
	// The stale id stays in order until compactLocked runs.
	delete(m.regs, id)
	return true
}

func (m *matcher) removeAll() {
	m.e.mu.Lock()
	m.regs = make(map[uuid.UUID]*hotkeyReg)
	m.order = nil
	m.hookInstalled = false
	m.hookID = uuid.Nil
	m.e.mu.Unlock()
}

// compactLocked drops removed ids from the iteration order once they
// outnumber the live registrations. Must be called with the engine's
// registration mutex held.
func (m *matcher) compactLocked() {
	if len(m.order) <= 2*len(m.regs) {
		return
	}
	live := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.regs[id]; ok {
			live = append(live, id)
		}
	}
	m.order = live
}

// onEvent consumes one dispatched event on the hub thread. Completed
// callbacks are collected under the lock and spawned after it is
// released so callbacks may add or remove registrations freely.
func (m *matcher) onEvent(ev keyevent.Event) backend.Vote {
	if ev.Injected {
		return backend.Allow
	}

	vote := backend.Allow
	var fired []func()

	m.e.mu.Lock()
	m.compactLocked()
	for _, id := range m.order {
		reg, ok := m.regs[id]
		if !ok {
			continue
		}
		if reg.step > 0 && ev.Time > reg.deadline {
			reg.step = 0
		}

		if ev.Type == keyevent.KeyUp {
			if reg.armed != nil && reg.armed[ev.ScanCode] {
				fired = append(fired, reg.callback)
				reg.armed = nil
				if reg.opts.Suppress {
					vote = backend.Suppress
				}
			} else if reg.opts.Suppress && reg.step > 0 && reg.inPendingStep(ev.ScanCode) {
				vote = backend.Suppress
			}
			continue
		}

		if reg.completes(ev, m.e.isCodePressed) {
			if reg.opts.Suppress {
				vote = backend.Suppress
			}
			if reg.step == reg.lastStep() {
				if reg.opts.TriggerOnRelease {
					reg.armed = reg.hotkey.stepCodes(reg.step)
				} else {
					fired = append(fired, reg.callback)
				}
				reg.step = 0
			} else {
				reg.step++
				reg.deadline = ev.Time + reg.timeout
			}
		} else if reg.opts.Suppress && reg.step > 0 && reg.inPendingStep(ev.ScanCode) {
			// Mid-sequence: the OS must not deliver keys the pending
			// step would consume.
			vote = backend.Suppress
		}
	}
	m.e.mu.Unlock()

	for _, fn := range fired {
		m.e.spawn(fn)
	}
	return vote
}

// AddHotkey compiles spec and registers callback for it. Callbacks
// run detached from the hub thread and may block. The returned id
// removes the registration via RemoveHotkey.
func (e *Engine) AddHotkey(spec string, callback func(), opts *HotkeyOptions) (uuid.UUID, error) {
	h, err := e.ParseHotkey(spec)
	if err != nil {
		return uuid.Nil, err
	}
	return e.AddParsedHotkey(h, callback, opts)
}

// AddParsedHotkey registers an already-compiled hotkey, e.g. one
// built from raw scan codes with HotkeyFromCodes.
func (e *Engine) AddParsedHotkey(h Hotkey, callback func(), opts *HotkeyOptions) (uuid.UUID, error) {
	var o HotkeyOptions
	if opts != nil {
		o = *opts
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultHotkeyTimeout
	}
	reg := &hotkeyReg{
		hotkey:   h,
		callback: callback,
		opts:     o,
		timeout:  timeout.Seconds(),
	}
	return e.matcher.add(reg)
}

// RemoveHotkey drops a hotkey registration. After it returns no new
// callback for the registration starts.
func (e *Engine) RemoveHotkey(id uuid.UUID) bool {
	return e.matcher.remove(id)
}

// RemoveAllHotkeys drops every hotkey registration.
func (e *Engine) RemoveAllHotkeys() {
	e.mu.Lock()
	e.matcher.regs = make(map[uuid.UUID]*hotkeyReg)
	e.matcher.order = nil
	e.mu.Unlock()
}

// BlockKey suppresses a key system-wide: a single-step suppressing
// hotkey with a no-op callback.
func (e *Engine) BlockKey(key string) (uuid.UUID, error) {
	return e.AddHotkey(key, func() {}, &HotkeyOptions{Suppress: true})
}

// RemapKey blocks src and synthesizes dst in its place.
func (e *Engine) RemapKey(src, dst string) (uuid.UUID, error) {
	return e.AddHotkey(src, func() {
		if err := e.Send(dst); err != nil {
			e.logger.Printf("remap %s -> %s: %v", src, dst, err)
		}
	}, &HotkeyOptions{Suppress: true})
}
