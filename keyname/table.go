// Package keyname maps between canonical key names and the scan codes
// a backend reports for them. Name to scan code is one-to-many (two
// shift keys); scan code to name is one-to-many as well (the same
// physical key can carry several equally valid names).
package keyname

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

//go:embed aliases.toml
var aliasesTOML []byte

// aliasFile is the decoded shape of aliases.toml.
type aliasFile struct {
	Aliases map[string]string `toml:"aliases"`
}

var aliasMap = loadAliases()

func loadAliases() map[string]string {
	var f aliasFile
	if err := toml.Unmarshal(aliasesTOML, &f); err != nil {
		// The file is embedded at build time; a decode failure is a
		// packaging bug, not a runtime condition.
		panic(fmt.Sprintf("keyname: decode aliases.toml: %v", err))
	}
	return f.Aliases
}

// platformSuffixes are decorations some platforms append to key names.
var platformSuffixes = []string{
	" (numeric pad)",
	" (media keys)",
}

// modifierBases are the unsided modifier names. Sided variants are
// "left "/"right " plus one of these.
var modifierBases = map[string]bool{
	"alt":     true,
	"alt gr":  true,
	"ctrl":    true,
	"shift":   true,
	"windows": true,
}

// navNames are preferred over keypad names when a code carries both.
var navNames = map[string]bool{
	"home":      true,
	"end":       true,
	"page up":   true,
	"page down": true,
}

// Normalize lowercases, trims, collapses internal whitespace, strips
// platform suffixes, and applies the alias table.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), " ")
	for _, suffix := range platformSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	if canonical, ok := aliasMap[name]; ok {
		return canonical
	}
	return name
}

// IsModifier reports whether the canonical name is a modifier,
// sided or not.
func IsModifier(name string) bool {
	name = Normalize(name)
	if modifierBases[name] {
		return true
	}
	base, ok := strings.CutPrefix(name, "left ")
	if !ok {
		base, ok = strings.CutPrefix(name, "right ")
	}
	return ok && modifierBases[base]
}

// Unsided strips a "left "/"right " prefix from a modifier name.
func Unsided(name string) string {
	base, ok := strings.CutPrefix(name, "left ")
	if !ok {
		base, ok = strings.CutPrefix(name, "right ")
	}
	if ok && modifierBases[base] {
		return base
	}
	return name
}

// Entry is one backend mapping row: a scan code, one of its canonical
// names, and whether the key sits on the physical numeric pad.
type Entry struct {
	Code     uint16
	Name     string
	IsKeypad bool
}

// Table holds the bidirectional name maps for one backend's mapping.
// It is immutable after construction; Reload builds a fresh Table and
// the owner swaps the pointer.
type Table struct {
	fromName map[string][]uint16
	toName   map[uint16][]string
	keypad   map[uint16]bool
}

// NewTable builds a Table from backend mapping entries. Entries are
// applied in order; ScanCodes reports codes in first-observed order.
// Registering a sided modifier also registers its unsided base, so
// "ctrl" resolves to both ctrl keys without an alias entry.
func NewTable(entries []Entry) *Table {
	t := &Table{
		fromName: make(map[string][]uint16),
		toName:   make(map[uint16][]string),
		keypad:   make(map[uint16]bool),
	}
	for _, e := range entries {
		t.add(e.Code, Normalize(e.Name), e.IsKeypad)
	}
	return t
}

func (t *Table) add(code uint16, name string, isKeypad bool) {
	if name == "" {
		return
	}
	t.register(code, name)
	if unsided := Unsided(name); unsided != name {
		t.register(code, unsided)
	}
	if isKeypad {
		t.keypad[code] = true
	}
}

func (t *Table) register(code uint16, name string) {
	for _, c := range t.fromName[name] {
		if c == code {
			return
		}
	}
	t.fromName[name] = append(t.fromName[name], code)
	t.toName[code] = append(t.toName[code], name)
}

// ScanCodes returns the scan codes for a canonical or alias name, in
// the order the backend first reported them. Unknown names return an
// empty list; callers decide whether absence is fatal.
func (t *Table) ScanCodes(name string) []uint16 {
	return t.fromName[Normalize(name)]
}

// Name returns the preferred name for a scan code: the navigation
// name when the code carries both a navigation and a keypad name,
// otherwise the first registered name that is not a sided modifier.
// With sided true, sided modifier names are reported as-is.
func (t *Table) Name(code uint16, sided bool) string {
	names := t.toName[code]
	if len(names) == 0 {
		return ""
	}
	for _, n := range names {
		if navNames[n] {
			return n
		}
	}
	if !sided {
		for _, n := range names {
			if Unsided(n) == n {
				return n
			}
		}
	}
	return names[0]
}

// IsKeypad reports whether the code was registered as a keypad key.
func (t *Table) IsKeypad(code uint16) bool {
	return t.keypad[code]
}

// Codes returns every scan code in the table.
func (t *Table) Codes() []uint16 {
	codes := make([]uint16, 0, len(t.toName))
	for c := range t.toName {
		codes = append(codes, c)
	}
	return codes
}

// KeyToCodes resolves a user-supplied key token to the scan codes
// that can satisfy it. A token of decimal digits with more than one
// digit is a literal scan code; a single character resolves through
// the table after lowercasing, falling back to the shifted-character
// table for characters typed with shift; anything else is a canonical
// or alias name. An empty resolution returns ErrUnknownKey.
func (t *Table) KeyToCodes(token string) ([]uint16, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty key token", ErrUnknownKey)
	}
	if len(token) > 1 && isDigits(token) {
		n, err := strconv.ParseUint(token, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: scan code %q out of range", ErrUnknownKey, token)
		}
		return []uint16{uint16(n)}, nil
	}
	if codes := t.ScanCodes(strings.ToLower(token)); len(codes) > 0 {
		return codes, nil
	}
	if r := []rune(token); len(r) == 1 {
		// A shifted character like '+' resolves to its base key; the
		// caller decides whether shift matters (write does, hotkeys
		// match the physical key either way).
		if base, _, ok := CharToKey(r[0]); ok {
			if codes := t.ScanCodes(base); len(codes) > 0 {
				return codes, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
