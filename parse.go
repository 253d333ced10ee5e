package keyweave

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Danondso/keyweave/keyname"
)

// KeyClass is the set of scan codes any of which satisfies one key
// token. "ctrl" is a two-code class covering both ctrl keys.
type KeyClass []uint16

// Step is the set of KeyClasses that must be simultaneously held.
type Step []KeyClass

// Hotkey is an ordered sequence of Steps compiled from a hotkey
// string. It also carries, per step, the cartesian combinations (one
// concrete scan code per KeyClass) the matcher indexes on.
type Hotkey struct {
	steps  []Step
	names  [][]string
	combos [][][]uint16
}

// Steps returns the compiled steps.
func (h Hotkey) Steps() []Step { return h.steps }

// String reserializes the hotkey in canonical form: steps joined by
// ", ", keys joined by "+", with the plus/comma/space literals.
func (h Hotkey) String() string {
	steps := make([]string, len(h.names))
	for i, keys := range h.names {
		steps[i] = strings.Join(keys, "+")
	}
	return strings.Join(steps, ", ")
}

// combinations returns the concrete scan-code tuples for step i.
func (h Hotkey) combinations(i int) [][]uint16 { return h.combos[i] }

// stepCodes returns every scan code appearing in step i.
func (h Hotkey) stepCodes(i int) map[uint16]bool {
	codes := make(map[uint16]bool)
	for _, class := range h.steps[i] {
		for _, c := range class {
			codes[c] = true
		}
	}
	return codes
}

// literalTokens let the separator characters appear as keys.
var literalTokens = map[string]string{
	"plus":  "+",
	"comma": ",",
}

// ParseHotkey compiles a hotkey string like "ctrl+shift+a" or
// "ctrl+a, b" into a Hotkey. Whitespace around "+" and "," is
// insignificant; the tokens "plus", "comma" and "space" stand for the
// characters they name; a token of two or more decimal digits is a
// literal scan code.
func (e *Engine) ParseHotkey(spec string) (Hotkey, error) {
	if strings.TrimSpace(spec) == "" {
		return Hotkey{}, fmt.Errorf("%w: empty hotkey", ErrParse)
	}
	table := e.Table()
	var h Hotkey
	for _, rawStep := range strings.Split(spec, ",") {
		var step Step
		var names []string
		for _, rawKey := range strings.Split(rawStep, "+") {
			token := strings.TrimSpace(rawKey)
			if token == "" {
				return Hotkey{}, fmt.Errorf("%w: empty key in %q", ErrParse, spec)
			}
			display := keyname.Normalize(token)
			resolveAs := display
			if ch, ok := literalTokens[display]; ok {
				resolveAs = ch
			}
			codes, err := table.KeyToCodes(resolveAs)
			if err != nil {
				return Hotkey{}, err
			}
			step = append(step, KeyClass(codes))
			names = append(names, display)
		}
		h.steps = append(h.steps, step)
		h.names = append(h.names, names)
	}
	h.combos = expandCombos(h.steps)
	return h, nil
}

// HotkeyFromCodes builds a hotkey from raw scan codes: one step per
// code, the flat-list form accepted alongside parsed strings.
func HotkeyFromCodes(codes ...uint16) Hotkey {
	var h Hotkey
	for _, c := range codes {
		h.steps = append(h.steps, Step{KeyClass{c}})
		h.names = append(h.names, []string{strconv.Itoa(int(c))})
	}
	h.combos = expandCombos(h.steps)
	return h
}

func expandCombos(steps []Step) [][][]uint16 {
	combos := make([][][]uint16, len(steps))
	for i, step := range steps {
		combos[i] = cartesian(step)
	}
	return combos
}

// cartesian picks one scan code per KeyClass, producing every
// concrete tuple that can satisfy the step.
func cartesian(step Step) [][]uint16 {
	result := [][]uint16{{}}
	for _, class := range step {
		var next [][]uint16
		for _, prefix := range result {
			for _, code := range class {
				combo := make([]uint16, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, code))
			}
		}
		result = next
	}
	return result
}

// GetHotkeyName renders a list of key names as a canonical
// single-step hotkey string: modifiers first in sorted order, other
// keys in the given order, joined with "+". It is a left inverse of
// ParseHotkey for single-step hotkeys modulo alias normalization.
func GetHotkeyName(names []string) string {
	var mods, keys []string
	for _, n := range names {
		n = keyname.Normalize(n)
		switch n {
		case "+":
			n = "plus"
		case ",":
			n = "comma"
		case " ":
			n = "space"
		}
		if keyname.IsModifier(n) {
			mods = append(mods, keyname.Unsided(n))
		} else {
			keys = append(keys, n)
		}
	}
	sort.Strings(mods)
	return strings.Join(append(mods, keys...), "+")
}
