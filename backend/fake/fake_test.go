package fake

import (
	"fmt"
	"testing"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

func TestInjectDeliversNamedEvents(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	var got []keyevent.Event
	if _, err := b.InstallHook(func(ev keyevent.Event) backend.Vote {
		got = append(got, ev)
		return backend.Allow
	}, nil, true); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 57, 0.5)
	b.Inject(keyevent.KeyDown, 71, 0.6)

	if len(got) != 2 {
		t.Fatalf("hook saw %d events, want 2", len(got))
	}
	if got[0].Name != "space" || got[0].Time != 0.5 || got[0].IsKeypad {
		t.Errorf("unexpected event: %+v", got[0])
	}
	if got[1].Name != "7" || !got[1].IsKeypad {
		t.Errorf("expected keypad 7, got %+v", got[1])
	}
}

func TestSuppressionDecisionsAreRecorded(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.InstallHook(func(ev keyevent.Event) backend.Vote {
		if ev.ScanCode == 30 {
			return backend.Suppress
		}
		return backend.Allow
	}, nil, true); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 30, 0)
	b.Inject(keyevent.KeyDown, 31, 0.1)

	sup := b.Suppressed()
	if len(sup) != 2 || !sup[0] || sup[1] {
		t.Errorf("Suppressed() = %v, want [true false]", sup)
	}
}

func TestLoopInjectedTagsEvents(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	b.LoopInjected = true

	var got []keyevent.Event
	if _, err := b.InstallHook(func(ev keyevent.Event) backend.Vote {
		got = append(got, ev)
		return backend.Allow
	}, nil, true); err != nil {
		t.Fatal(err)
	}

	if err := b.Press(30); err != nil {
		t.Fatal(err)
	}
	if err := b.Release(30); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("hook saw %d events, want 2", len(got))
	}
	if !got[0].Injected || got[0].Type != keyevent.KeyDown {
		t.Errorf("first looped event: %+v", got[0])
	}
	if !got[1].Injected || got[1].Type != keyevent.KeyUp {
		t.Errorf("second looped event: %+v", got[1])
	}

	ops := b.Ops()
	if len(ops) != 2 || ops[0].Kind != "press" || ops[1].Kind != "release" {
		t.Errorf("ops = %v", ops)
	}
}

func TestUninstallStopsDelivery(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	count := 0
	h, err := b.InstallHook(func(keyevent.Event) backend.Vote {
		count++
		return backend.Allow
	}, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	b.Inject(keyevent.KeyDown, 30, 0)
	if err := h.Uninstall(); err != nil {
		t.Fatal(err)
	}
	b.Inject(keyevent.KeyDown, 30, 0.1)
	if count != 1 {
		t.Errorf("hook ran %d times, want 1", count)
	}
}

func TestInstallBookkeeping(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	h, err := b.InstallHook(func(keyevent.Event) backend.Vote {
		return backend.Allow
	}, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if b.Installs() != 1 || b.WantsSuppression() {
		t.Errorf("Installs=%d WantsSuppression=%v, want 1 and false", b.Installs(), b.WantsSuppression())
	}
	if err := h.Uninstall(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.InstallHook(func(keyevent.Event) backend.Vote {
		return backend.Allow
	}, nil, true); err != nil {
		t.Fatal(err)
	}
	if b.Installs() != 2 || !b.WantsSuppression() {
		t.Errorf("Installs=%d WantsSuppression=%v, want 2 and true", b.Installs(), b.WantsSuppression())
	}
}

func TestFailHubReportsAndStopsDelivery(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	count := 0
	var reported error
	if _, err := b.InstallHook(func(keyevent.Event) backend.Vote {
		count++
		return backend.Allow
	}, func(err error) { reported = err }, false); err != nil {
		t.Fatal(err)
	}

	b.Inject(keyevent.KeyDown, 30, 0)
	b.FailHub(errDeviceGone)
	b.Inject(keyevent.KeyDown, 30, 0.1)

	if reported != errDeviceGone {
		t.Errorf("reported = %v, want %v", reported, errDeviceGone)
	}
	if count != 1 {
		t.Errorf("hook ran %d times, want 1 (delivery stops on failure)", count)
	}
}

var errDeviceGone = fmt.Errorf("device gone")

func TestMappingHasStandardCodes(t *testing.T) {
	b := New()
	entries, err := b.Mapping()
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint16]string{
		1:  "esc",
		29: "left ctrl",
		30: "a",
		42: "left shift",
		57: "space",
	}
	seen := map[uint16]string{}
	for _, e := range entries {
		if _, ok := seen[e.Code]; !ok {
			seen[e.Code] = e.Name
		}
	}
	for code, name := range want {
		if seen[code] != name {
			t.Errorf("code %d = %q, want %q", code, seen[code], name)
		}
	}
}
