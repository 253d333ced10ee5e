package keyname

import (
	"errors"
	"testing"
)

// testEntries is a compact mapping in the shape backends supply:
// sided modifiers, a keypad digit sharing a navigation name, and a
// digit appearing on two physical keys.
var testEntries = []Entry{
	{Code: 1, Name: "esc"},
	{Code: 8, Name: "7"},
	{Code: 13, Name: "="},
	{Code: 28, Name: "enter"},
	{Code: 29, Name: "left ctrl"},
	{Code: 30, Name: "a"},
	{Code: 42, Name: "left shift"},
	{Code: 54, Name: "right shift"},
	{Code: 57, Name: "space"},
	{Code: 71, Name: "7", IsKeypad: true},
	{Code: 71, Name: "home", IsKeypad: true},
	{Code: 97, Name: "right ctrl"},
	{Code: 102, Name: "home"},
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "CTRL", "ctrl"},
		{"trim", "  esc  ", "esc"},
		{"collapse whitespace", "page   up", "page up"},
		{"alias control", "control", "ctrl"},
		{"alias escape", "Escape", "esc"},
		{"alias option", "option", "alt"},
		{"alias command", "command", "windows"},
		{"alias pgup", "pgup", "page up"},
		{"alias sided", "Left Control", "left ctrl"},
		{"alias return", "return", "enter"},
		{"platform suffix", "7 (numeric pad)", "7"},
		{"unchanged", "f5", "f5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsModifier(t *testing.T) {
	for _, name := range []string{"ctrl", "shift", "alt", "windows", "left ctrl", "right shift", "alt gr", "Control", "command"} {
		if !IsModifier(name) {
			t.Errorf("expected %q to be a modifier", name)
		}
	}
	for _, name := range []string{"a", "space", "enter", "left", "leftmost"} {
		if IsModifier(name) {
			t.Errorf("expected %q not to be a modifier", name)
		}
	}
}

func TestUnsided(t *testing.T) {
	if Unsided("left ctrl") != "ctrl" {
		t.Errorf("Unsided(left ctrl) = %q", Unsided("left ctrl"))
	}
	if Unsided("right shift") != "shift" {
		t.Errorf("Unsided(right shift) = %q", Unsided("right shift"))
	}
	// "left" is a key, not a side prefix on a modifier.
	if Unsided("left") != "left" {
		t.Errorf("Unsided(left) = %q", Unsided("left"))
	}
}

func TestScanCodesOrderAndSidedModifiers(t *testing.T) {
	table := NewTable(testEntries)

	codes := table.ScanCodes("ctrl")
	if len(codes) != 2 || codes[0] != 29 || codes[1] != 97 {
		t.Fatalf("ScanCodes(ctrl) = %v, want [29 97]", codes)
	}
	if got := table.ScanCodes("left ctrl"); len(got) != 1 || got[0] != 29 {
		t.Errorf("ScanCodes(left ctrl) = %v, want [29]", got)
	}
	// The digit appears on the main row first, then the keypad.
	if got := table.ScanCodes("7"); len(got) != 2 || got[0] != 8 || got[1] != 71 {
		t.Errorf("ScanCodes(7) = %v, want [8 71]", got)
	}
	// Aliases resolve through the table.
	if got := table.ScanCodes("Control"); len(got) != 2 {
		t.Errorf("ScanCodes(Control) = %v, want two codes", got)
	}
	if got := table.ScanCodes("no such key"); len(got) != 0 {
		t.Errorf("ScanCodes(unknown) = %v, want empty", got)
	}
}

func TestNamePreference(t *testing.T) {
	table := NewTable(testEntries)

	tests := []struct {
		name  string
		code  uint16
		sided bool
		want  string
	}{
		{"unsided modifier preferred", 29, false, "ctrl"},
		{"sided kept on request", 29, true, "left ctrl"},
		{"nav name beats keypad digit", 71, false, "home"},
		{"plain key", 30, false, "a"},
		{"nav key", 102, false, "home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Name(tt.code, tt.sided); got != tt.want {
				t.Errorf("Name(%d, %v) = %q, want %q", tt.code, tt.sided, got, tt.want)
			}
		})
	}
}

// Every code's preferred name must resolve back to a set containing
// that code.
func TestNameRoundTrip(t *testing.T) {
	table := NewTable(testEntries)
	for _, code := range table.Codes() {
		name := table.Name(code, false)
		if name == "" {
			t.Errorf("code %d has no name", code)
			continue
		}
		found := false
		for _, c := range table.ScanCodes(name) {
			if c == code {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("ScanCodes(%q) does not contain %d", name, code)
		}
	}
}

func TestKeyToCodes(t *testing.T) {
	table := NewTable(testEntries)

	tests := []struct {
		name    string
		token   string
		want    []uint16
		wantErr bool
	}{
		{"multi-digit scan code literal", "97", []uint16{97}, false},
		{"single digit is a key name", "7", []uint16{8, 71}, false},
		{"single char lowercased", "A", []uint16{30}, false},
		{"name", "space", []uint16{57}, false},
		{"alias", "control", []uint16{29, 97}, false},
		{"shifted char falls back to base key", "+", []uint16{13}, false},
		{"unknown", "fnord", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.KeyToCodes(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.token)
				}
				if !errors.Is(err, ErrUnknownKey) {
					t.Errorf("expected ErrUnknownKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.token, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("KeyToCodes(%q) = %v, want %v", tt.token, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("KeyToCodes(%q) = %v, want %v", tt.token, got, tt.want)
					break
				}
			}
		})
	}
}

func TestIsKeypad(t *testing.T) {
	table := NewTable(testEntries)
	if !table.IsKeypad(71) {
		t.Error("expected code 71 to be keypad")
	}
	if table.IsKeypad(8) {
		t.Error("expected code 8 not to be keypad")
	}
}
