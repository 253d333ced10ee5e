// Package fake is a deterministic in-memory backend for tests and the
// CLI self test. Events are injected by the caller and delivered to
// the hook synchronously on the calling goroutine, so every test sees
// the hub's suppression decision for each event it feeds.
package fake

import (
	"fmt"
	"sync"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// Op is one synthesis call observed by the backend.
type Op struct {
	Kind string // "press", "release", or "unicode"
	Code uint16
	Rune rune
}

// Backend implements backend.Backend with scripted input.
type Backend struct {
	mu         sync.Mutex
	hook       backend.HookFunc
	onError    func(error)
	inited     bool
	shutdown   bool
	clock      float64
	ops        []Op
	suppressed []bool
	installs   int
	wantsSuppr bool

	// InitErr, when set, is returned from Init to simulate missing
	// privileges.
	InitErr error
	// LoopInjected re-delivers synthesized events through the hook,
	// tagged as injected, the way real backends observe their own
	// output.
	LoopInjected bool
}

// New returns a fake backend with the standard mapping installed.
func New() *Backend {
	return &Backend{}
}

// Init implements backend.Backend.
func (b *Backend) Init() error {
	if b.InitErr != nil {
		return b.InitErr
	}
	b.mu.Lock()
	b.inited = true
	b.mu.Unlock()
	return nil
}

// Shutdown implements backend.Backend.
func (b *Backend) Shutdown() error {
	b.mu.Lock()
	b.shutdown = true
	b.hook = nil
	b.mu.Unlock()
	return nil
}

// Mapping returns the standard PC keyboard mapping.
func (b *Backend) Mapping() ([]keyname.Entry, error) {
	return standardMapping, nil
}

type handle struct{ b *Backend }

func (h handle) Uninstall() error {
	h.b.mu.Lock()
	h.b.hook = nil
	h.b.onError = nil
	h.b.mu.Unlock()
	return nil
}

// InstallHook implements backend.Backend.
func (b *Backend) InstallHook(fn backend.HookFunc, onError func(error), wantsSuppression bool) (backend.HookHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inited || b.shutdown {
		return nil, fmt.Errorf("fake backend not initialized")
	}
	if b.hook != nil {
		return nil, fmt.Errorf("hook already installed")
	}
	b.hook = fn
	b.onError = onError
	b.installs++
	b.wantsSuppr = wantsSuppression
	return handle{b}, nil
}

// Installs reports how many times a hook has been installed.
func (b *Backend) Installs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.installs
}

// WantsSuppression reports the flag of the most recent install.
func (b *Backend) WantsSuppression() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wantsSuppr
}

// FailHub reports err as an unrecoverable hub-thread failure, the way
// a real backend does when its device disappears.
func (b *Backend) FailHub(err error) {
	b.mu.Lock()
	onError := b.onError
	b.hook = nil
	b.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

// TagsInjected implements backend.Backend.
func (b *Backend) TagsInjected() bool { return true }

// Inject delivers one event to the installed hook at the given
// timestamp and returns the hub's suppression decision. The event's
// name and keypad flag are filled from the mapping, as a real backend
// would.
func (b *Backend) Inject(t keyevent.Type, code uint16, at float64) backend.Vote {
	return b.deliver(t, code, at, false)
}

// InjectEvent delivers a prebuilt event, for replayed streams.
func (b *Backend) InjectEvent(ev keyevent.Event) backend.Vote {
	b.mu.Lock()
	hook := b.hook
	b.mu.Unlock()
	if hook == nil {
		return backend.Allow
	}
	vote := hook(ev)
	b.mu.Lock()
	b.suppressed = append(b.suppressed, vote == backend.Suppress)
	b.mu.Unlock()
	return vote
}

func (b *Backend) deliver(t keyevent.Type, code uint16, at float64, injected bool) backend.Vote {
	ev := keyevent.Event{
		Type:     t,
		ScanCode: code,
		Name:     nameOf(code),
		Time:     at,
		IsKeypad: keypadOf(code),
		Injected: injected,
	}
	return b.InjectEvent(ev)
}

// Press implements backend.Backend.
func (b *Backend) Press(code uint16) error {
	b.mu.Lock()
	b.ops = append(b.ops, Op{Kind: "press", Code: code})
	b.clock += 0.001
	at := b.clock
	loop := b.LoopInjected
	b.mu.Unlock()
	if loop {
		b.deliver(keyevent.KeyDown, code, at, true)
	}
	return nil
}

// Release implements backend.Backend.
func (b *Backend) Release(code uint16) error {
	b.mu.Lock()
	b.ops = append(b.ops, Op{Kind: "release", Code: code})
	b.clock += 0.001
	at := b.clock
	loop := b.LoopInjected
	b.mu.Unlock()
	if loop {
		b.deliver(keyevent.KeyUp, code, at, true)
	}
	return nil
}

// TypeUnicode implements backend.Backend.
func (b *Backend) TypeUnicode(r rune) error {
	b.mu.Lock()
	b.ops = append(b.ops, Op{Kind: "unicode", Rune: r})
	b.mu.Unlock()
	return nil
}

// Ops returns a copy of the synthesis log.
func (b *Backend) Ops() []Op {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Op(nil), b.ops...)
}

// ResetOps clears the synthesis log.
func (b *Backend) ResetOps() {
	b.mu.Lock()
	b.ops = nil
	b.mu.Unlock()
}

// Suppressed returns the per-injection suppression decisions in
// injection order.
func (b *Backend) Suppressed() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bool(nil), b.suppressed...)
}
