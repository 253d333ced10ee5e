package keyweave

import (
	"github.com/google/uuid"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

// hookReg is one generic hook registration fed by the dispatch hub.
type hookReg struct {
	id          uuid.UUID
	fn          backend.HookFunc
	suppressing bool
	codes       map[uint16]struct{} // nil matches every key
	eventType   keyevent.Type       // "" matches both directions
}

func (h *hookReg) matches(ev keyevent.Event) bool {
	if h.eventType != "" && ev.Type != h.eventType {
		return false
	}
	if h.codes != nil {
		if _, ok := h.codes[ev.ScanCode]; !ok {
			return false
		}
	}
	return true
}

// addHook registers h. wantsSuppression tells the hub whether this
// registration can ever vote suppress, so observe-only sessions never
// pay the backend's suppression cost.
func (e *Engine) addHook(h *hookReg, wantsSuppression bool) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureHubLocked(wantsSuppression); err != nil {
		return uuid.Nil, err
	}
	h.id = uuid.New()
	e.hooks = append(e.hooks, h)
	return h.id, nil
}

// Hook registers fn for every event. With suppress true the hook's
// vote participates in the synchronous suppression decision;
// otherwise fn is invoked after the decision — with the event's
// Suppressed field reflecting it — and its return value is ignored.
// Hook callbacks run on the hub thread and must not block.
func (e *Engine) Hook(fn backend.HookFunc, suppress bool) (uuid.UUID, error) {
	return e.addHook(&hookReg{fn: fn, suppressing: suppress}, suppress)
}

// HookKey registers fn for events on one key token (all scan codes
// that satisfy it).
func (e *Engine) HookKey(key string, fn backend.HookFunc, suppress bool) (uuid.UUID, error) {
	codes, err := e.Table().KeyToCodes(key)
	if err != nil {
		return uuid.Nil, err
	}
	set := make(map[uint16]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return e.addHook(&hookReg{fn: fn, suppressing: suppress, codes: set}, suppress)
}

// OnPress registers a non-suppressing observer for key-down events.
func (e *Engine) OnPress(fn func(keyevent.Event)) (uuid.UUID, error) {
	return e.addHook(&hookReg{
		fn:        func(ev keyevent.Event) backend.Vote { fn(ev); return backend.Allow },
		eventType: keyevent.KeyDown,
	}, false)
}

// OnRelease registers a non-suppressing observer for key-up events.
func (e *Engine) OnRelease(fn func(keyevent.Event)) (uuid.UUID, error) {
	return e.addHook(&hookReg{
		fn:        func(ev keyevent.Event) backend.Vote { fn(ev); return backend.Allow },
		eventType: keyevent.KeyUp,
	}, false)
}

// Unhook removes a hook registration, found by scanning the hook list
// for the id: after it returns, no further callback for the id
// starts; a callback already dispatched completes normally.
func (e *Engine) Unhook(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, h := range e.hooks {
		if h.id == id {
			e.hooks = append(e.hooks[:i], e.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// UnhookAll removes every hook and hotkey registration.
func (e *Engine) UnhookAll() {
	e.mu.Lock()
	e.hooks = nil
	e.mu.Unlock()
	if e.matcher != nil {
		e.matcher.removeAll()
	}
}
