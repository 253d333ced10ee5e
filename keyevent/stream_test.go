package keyevent

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Write(Event{Type: KeyDown, ScanCode: 57, Name: "space", Time: 1.5}); err != nil {
		t.Fatalf("write: %v", err)
	}
	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Error("expected trailing newline")
	}
	if strings.Count(line, "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", line)
	}
	for _, key := range []string{`"event_type":"down"`, `"scan_code":57`, `"name":"space"`, `"time":1.5`, `"is_keypad":false`} {
		if !strings.Contains(line, key) {
			t.Errorf("expected %s in %q", key, line)
		}
	}
}

func TestWriterNullName(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(Event{Type: KeyUp, ScanCode: 200, Time: 0}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"name":null`) {
		t.Errorf("expected null name, got %q", buf.String())
	}
}

func TestReaderTolerance(t *testing.T) {
	input := `{"event_type":"down","scan_code":57,"name":"space","time":0.5,"is_keypad":false}

{"event_type":"up","scan_code":57,"name":null,"time":0.6,"is_keypad":false,"extra_key":42}
`
	r := NewReader(strings.NewReader(input))

	ev, err := r.Read()
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if ev.Type != KeyDown || ev.ScanCode != 57 || ev.Name != "space" || ev.Time != 0.5 {
		t.Errorf("unexpected first event: %+v", ev)
	}

	ev, err = r.Read()
	if err != nil {
		t.Fatalf("second read (extra keys must be ignored): %v", err)
	}
	if ev.Type != KeyUp || ev.Name != "" {
		t.Errorf("unexpected second event: %+v", ev)
	}

	if _, err := r.Read(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	events := []Event{
		{Type: KeyDown, ScanCode: 29, Name: "left ctrl", Time: 0.0},
		{Type: KeyDown, ScanCode: 30, Name: "a", Time: 0.01},
		{Type: KeyUp, ScanCode: 30, Name: "a", Time: 0.05},
		{Type: KeyUp, ScanCode: 29, Name: "left ctrl", Time: 0.06},
		{Type: KeyDown, ScanCode: 71, Name: "7", Time: 0.10, IsKeypad: true},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, ev := range events {
		if err := w.Write(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("got %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if !reflect.DeepEqual(got[i], eventWire(events[i])) {
			t.Errorf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}

// eventWire strips the fields the line format does not carry.
func eventWire(ev Event) Event {
	ev.Device = ""
	ev.Modifiers = nil
	ev.Injected = false
	ev.Suppressed = false
	return ev
}

func TestHasModifier(t *testing.T) {
	ev := Event{Modifiers: []string{"ctrl", "shift"}}
	if !ev.HasModifier("ctrl") || ev.HasModifier("alt") {
		t.Errorf("HasModifier misbehaved: %+v", ev.Modifiers)
	}
}
