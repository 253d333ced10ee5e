package keyweave

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Danondso/keyweave/backend/fake"
)

func newParseEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(fake.New(), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(func() { e.Shutdown() })
	return e
}

func TestParseHotkey(t *testing.T) {
	e := newParseEngine(t)

	tests := []struct {
		name string
		spec string
		want [][][]uint16 // step -> class -> codes
	}{
		{"single key", "space", [][][]uint16{{{57}}}},
		{"chord", "ctrl+shift+a", [][][]uint16{{{29, 97}, {42, 54}, {30}}}},
		{"multi step", "ctrl+a, b", [][][]uint16{{{29, 97}, {30}}, {{48}}}},
		{"whitespace insignificant", "  ctrl  +  a ,b", [][][]uint16{{{29, 97}, {30}}, {{48}}}},
		{"aliases", "control+escape", [][][]uint16{{{29, 97}, {1}}}},
		{"plus literal", "ctrl+plus", [][][]uint16{{{29, 97}, {78}}}},
		{"comma literal", "comma, a", [][][]uint16{{{51}}, {{30}}}},
		{"space literal", "alt+space", [][][]uint16{{{56, 100}, {57}}}},
		{"scan code literal", "29+30", [][][]uint16{{{29}, {30}}}},
		{"single digit is a name", "ctrl+5", [][][]uint16{{{29, 97}, {6, 76}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := e.ParseHotkey(tt.spec)
			if err != nil {
				t.Fatalf("ParseHotkey(%q): %v", tt.spec, err)
			}
			got := make([][][]uint16, len(h.Steps()))
			for i, step := range h.Steps() {
				for _, class := range step {
					got[i] = append(got[i], []uint16(class))
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHotkey(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseHotkeyErrors(t *testing.T) {
	e := newParseEngine(t)

	tests := []struct {
		name string
		spec string
		want error
	}{
		{"empty", "", ErrParse},
		{"empty key", "ctrl++a", ErrParse},
		{"trailing separator", "a,", ErrParse},
		{"unknown key", "ctrl+fnord", ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ParseHotkey(tt.spec)
			if err == nil {
				t.Fatalf("expected error for %q", tt.spec)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseHotkey(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestParseIdempotence(t *testing.T) {
	e := newParseEngine(t)

	specs := []string{
		"space",
		"Ctrl + Shift + A",
		"ctrl+a, b",
		"ctrl+plus",
		"comma, space",
		"control+escape",
	}
	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			h1, err := e.ParseHotkey(spec)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			h2, err := e.ParseHotkey(h1.String())
			if err != nil {
				t.Fatalf("reparse %q: %v", h1.String(), err)
			}
			if !reflect.DeepEqual(h1.Steps(), h2.Steps()) {
				t.Errorf("parse(%q) != parse(parse(%q).String()=%q)", spec, spec, h1.String())
			}
		})
	}
}

func TestStepCombinations(t *testing.T) {
	e := newParseEngine(t)
	h, err := e.ParseHotkey("ctrl+shift+a")
	if err != nil {
		t.Fatal(err)
	}
	combos := h.combinations(0)
	if len(combos) != 4 {
		t.Fatalf("expected 4 combinations (2 ctrl x 2 shift x 1 a), got %d", len(combos))
	}
	for _, combo := range combos {
		if len(combo) != 3 {
			t.Errorf("combination %v should pick one code per class", combo)
		}
	}
}

func TestHotkeyFromCodes(t *testing.T) {
	h := HotkeyFromCodes(29, 30)
	if len(h.Steps()) != 2 {
		t.Fatalf("expected one step per code, got %d", len(h.Steps()))
	}
	if h.String() != "29, 30" {
		t.Errorf("String() = %q, want %q", h.String(), "29, 30")
	}
}

func TestGetHotkeyName(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"modifiers sorted first", []string{"shift", "a", "ctrl"}, "ctrl+shift+a"},
		{"sided modifiers unsided", []string{"left ctrl", "x"}, "ctrl+x"},
		{"aliases normalized", []string{"Control", "Escape"}, "ctrl+esc"},
		{"plus becomes literal", []string{"ctrl", "+"}, "ctrl+plus"},
		{"single key", []string{"space"}, "space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHotkeyName(tt.names); got != tt.want {
				t.Errorf("GetHotkeyName(%v) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

// GetHotkeyName is a left inverse of ParseHotkey for single-step
// hotkeys: parsing its output resolves the same key classes.
func TestGetHotkeyNameLeftInverse(t *testing.T) {
	e := newParseEngine(t)
	specs := []string{"ctrl+shift+a", "alt+f4", "space", "ctrl+plus"}
	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			h1, err := e.ParseHotkey(spec)
			if err != nil {
				t.Fatal(err)
			}
			name := GetHotkeyName(h1.names[0])
			h2, err := e.ParseHotkey(name)
			if err != nil {
				t.Fatalf("reparse %q: %v", name, err)
			}
			if !reflect.DeepEqual(h1.Steps(), h2.Steps()) {
				t.Errorf("parse(%q) != parse(%q)", spec, name)
			}
		})
	}
}
