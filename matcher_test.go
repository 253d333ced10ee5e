package keyweave

import (
	"reflect"
	"testing"
	"time"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

// Scenario: single-key hotkey fires immediately and votes allow.
func TestSingleKeyHotkey(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddHotkey("space", func() { calls++ }, nil); err != nil {
		t.Fatal(err)
	}

	vote := b.Inject(keyevent.KeyDown, 57, 0)
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	if vote != backend.Allow {
		t.Error("non-suppressing hotkey must vote allow")
	}
	if got := e.PressedCodes(); !reflect.DeepEqual(got, []uint16{57}) {
		t.Errorf("PressedCodes() = %v, want [57]", got)
	}
}

// Scenario: chord with suppression fires on the completing key, which
// is the only one suppressed, and re-fires on repeat while held.
func TestChordHotkey(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddHotkey("ctrl+shift+a", func() { calls++ },
		&HotkeyOptions{Suppress: true}); err != nil {
		t.Fatal(err)
	}

	v1 := b.Inject(keyevent.KeyDown, 29, 0)
	v2 := b.Inject(keyevent.KeyDown, 42, 0.01)
	if calls != 0 {
		t.Fatalf("callback ran before chord completed")
	}
	v3 := b.Inject(keyevent.KeyDown, 30, 0.02)
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	if v1 != backend.Allow || v2 != backend.Allow {
		t.Error("modifiers alone must not be suppressed")
	}
	if v3 != backend.Suppress {
		t.Error("completing key must be suppressed")
	}

	// Repeat down of the final key with the chord still held fires
	// again.
	b.Inject(keyevent.KeyDown, 30, 0.5)
	if calls != 2 {
		t.Errorf("callback ran %d times after repeat, want 2", calls)
	}
}

// The chord matches whichever physical modifier is held.
func TestChordMatchesEitherSide(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddHotkey("ctrl+a", func() { calls++ }, nil); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 97, 0) // right ctrl
	b.Inject(keyevent.KeyDown, 30, 0.01)
	if calls != 1 {
		t.Errorf("right ctrl + a should match, calls = %d", calls)
	}
}

// Scenario: multi-step hotkey with a timeout between steps.
func TestMultiStepTimeout(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	id, err := e.AddHotkey("ctrl+a, b", func() { calls++ },
		&HotkeyOptions{Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	// In time: fires.
	b.Inject(keyevent.KeyDown, 29, 0)
	b.Inject(keyevent.KeyDown, 30, 0)
	b.Inject(keyevent.KeyUp, 30, 0.1)
	b.Inject(keyevent.KeyUp, 29, 0.1)
	b.Inject(keyevent.KeyDown, 48, 0.5)
	if calls != 1 {
		t.Fatalf("expected fire at t=0.5, calls = %d", calls)
	}
	b.Inject(keyevent.KeyUp, 48, 0.6)
	e.RemoveHotkey(id)

	// Too late: state resets, no fire.
	calls = 0
	if _, err := e.AddHotkey("ctrl+a, b", func() { calls++ },
		&HotkeyOptions{Timeout: time.Second}); err != nil {
		t.Fatal(err)
	}
	b.Inject(keyevent.KeyDown, 29, 10)
	b.Inject(keyevent.KeyDown, 30, 10)
	b.Inject(keyevent.KeyUp, 30, 10.1)
	b.Inject(keyevent.KeyUp, 29, 10.1)
	b.Inject(keyevent.KeyDown, 48, 11.5)
	if calls != 0 {
		t.Errorf("expected no fire at t=11.5, calls = %d", calls)
	}
}

func TestTriggerOnRelease(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddHotkey("ctrl+a", func() { calls++ },
		&HotkeyOptions{TriggerOnRelease: true}); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 29, 0)
	b.Inject(keyevent.KeyDown, 30, 0.01)
	if calls != 0 {
		t.Fatal("must not fire on the down event")
	}
	b.Inject(keyevent.KeyUp, 30, 0.02)
	if calls != 1 {
		t.Errorf("expected fire on release, calls = %d", calls)
	}
	// The one-shot is disarmed; further releases are quiet.
	b.Inject(keyevent.KeyUp, 29, 0.03)
	if calls != 1 {
		t.Errorf("expected no second fire, calls = %d", calls)
	}
}

// A suppressing multi-step registration suppresses the key that
// completes each step, including the first, while unrelated keys pass.
func TestMidSequenceSuppression(t *testing.T) {
	e, b := newTestEngine(t)

	if _, err := e.AddHotkey("ctrl+a, b", func() {},
		&HotkeyOptions{Suppress: true}); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 29, 0)
	v := b.Inject(keyevent.KeyDown, 30, 0.01) // completes step 0
	if v != backend.Suppress {
		t.Error("step-completing key of a suppressing hotkey must be suppressed")
	}
	v = b.Inject(keyevent.KeyDown, 48, 0.1) // completes step 1
	if v != backend.Suppress {
		t.Error("final key must be suppressed")
	}
	// A key outside the hotkey passes through.
	v = b.Inject(keyevent.KeyDown, 31, 0.2)
	if v != backend.Allow {
		t.Error("unrelated keys must not be suppressed")
	}
}

// Two hotkeys completed by the same key press both fire; callbacks
// fire in registration order.
func TestSameEventRegistrationOrder(t *testing.T) {
	e, b := newTestEngine(t)

	var order []string
	if _, err := e.AddHotkey("ctrl+a", func() { order = append(order, "long") },
		nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddHotkey("a", func() { order = append(order, "short") },
		nil); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 29, 0)
	b.Inject(keyevent.KeyDown, 30, 0.01)
	if !reflect.DeepEqual(order, []string{"long", "short"}) {
		t.Errorf("order = %v, want [long short]", order)
	}
}

func TestRemoveHotkeyNoFutureCallback(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	id, err := e.AddHotkey("space", func() { calls++ }, nil)
	if err != nil {
		t.Fatal(err)
	}
	b.Inject(keyevent.KeyDown, 57, 0)
	b.Inject(keyevent.KeyUp, 57, 0.01)

	if !e.RemoveHotkey(id) {
		t.Fatal("RemoveHotkey returned false")
	}
	b.Inject(keyevent.KeyDown, 57, 0.1)
	if calls != 1 {
		t.Errorf("callback ran %d times, want exactly 1", calls)
	}
	if e.RemoveHotkey(id) {
		t.Error("second RemoveHotkey should return false")
	}
}

// Removing a registration in the middle keeps the survivors firing
// in their original registration order.
func TestRemovalPreservesRegistrationOrder(t *testing.T) {
	e, b := newTestEngine(t)

	var order []string
	first, err := e.AddHotkey("a", func() { order = append(order, "first") }, nil)
	if err != nil {
		t.Fatal(err)
	}
	mid, err := e.AddHotkey("a", func() { order = append(order, "mid") }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddHotkey("a", func() { order = append(order, "last") }, nil); err != nil {
		t.Fatal(err)
	}

	if !e.RemoveHotkey(mid) {
		t.Fatal("RemoveHotkey returned false")
	}
	b.Inject(keyevent.KeyDown, 30, 0)
	if !reflect.DeepEqual(order, []string{"first", "last"}) {
		t.Errorf("order = %v, want [first last]", order)
	}

	// Removing the head as well leaves only the tail registration.
	order = nil
	if !e.RemoveHotkey(first) {
		t.Fatal("RemoveHotkey returned false")
	}
	b.Inject(keyevent.KeyUp, 30, 0.01)
	b.Inject(keyevent.KeyDown, 30, 0.02)
	if !reflect.DeepEqual(order, []string{"last"}) {
		t.Errorf("order = %v, want [last]", order)
	}
}

func TestBlockKey(t *testing.T) {
	e, b := newTestEngine(t)

	if _, err := e.BlockKey("caps lock"); err != nil {
		t.Fatal(err)
	}
	if v := b.Inject(keyevent.KeyDown, 58, 0); v != backend.Suppress {
		t.Error("blocked key must be suppressed")
	}
	if v := b.Inject(keyevent.KeyDown, 30, 0.1); v != backend.Allow {
		t.Error("other keys must pass")
	}
}

func TestRemapKey(t *testing.T) {
	e, b := newTestEngine(t)

	if _, err := e.RemapKey("caps lock", "esc"); err != nil {
		t.Fatal(err)
	}
	v := b.Inject(keyevent.KeyDown, 58, 0)
	if v != backend.Suppress {
		t.Error("source key must be suppressed")
	}
	ops := b.Ops()
	want := []fakeOp{{"press", 1}, {"release", 1}}
	if !sameOps(ops, want) {
		t.Errorf("ops = %v, want esc press+release", ops)
	}
}

// Injected events are ignored for matching by default.
func TestMatcherIgnoresInjectedEvents(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddHotkey("space", func() { calls++ }, nil); err != nil {
		t.Fatal(err)
	}

	b.InjectEvent(keyevent.Event{
		Type: keyevent.KeyDown, ScanCode: 57, Name: "space", Time: 0, Injected: true,
	})
	if calls != 0 {
		t.Errorf("matcher must ignore injected events, calls = %d", calls)
	}
}

func TestHotkeyFromRawCodes(t *testing.T) {
	e, b := newTestEngine(t)

	calls := 0
	if _, err := e.AddParsedHotkey(HotkeyFromCodes(57), func() { calls++ }, nil); err != nil {
		t.Fatal(err)
	}
	b.Inject(keyevent.KeyDown, 57, 0)
	if calls != 1 {
		t.Errorf("raw-code hotkey calls = %d, want 1", calls)
	}
}
