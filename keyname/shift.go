package keyname

import "unicode"

// shiftedSymbols maps a shifted US-layout character to the name of
// the key that produces it.
var shiftedSymbols = map[rune]string{
	'!': "1", '@': "2", '#': "3", '$': "4", '%': "5",
	'^': "6", '&': "7", '*': "8", '(': "9", ')': "0",
	'_': "-", '+': "=",
	'{': "[", '}': "]", '|': "\\",
	':': ";", '"': "'",
	'<': ",", '>': ".", '?': "/",
	'~': "`",
}

// unshiftedSymbols is the reverse view, keyed by base-key name.
var unshiftedSymbols = func() map[string]rune {
	m := make(map[string]rune, len(shiftedSymbols))
	for shifted, base := range shiftedSymbols {
		m[base] = shifted
	}
	return m
}()

// CharToKey maps a character to the key that types it and whether
// shift must be held. It covers letters, digits, the US symbol row,
// space, newline, and tab; anything else reports ok=false and falls
// to the backend's Unicode path.
func CharToKey(r rune) (name string, shift bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
		return string(r), false, true
	case r >= 'A' && r <= 'Z':
		return string(unicode.ToLower(r)), true, true
	case r == ' ':
		return "space", false, true
	case r == '\n':
		return "enter", false, true
	case r == '\t':
		return "tab", false, true
	}
	if base, ok := shiftedSymbols[r]; ok {
		return base, true, true
	}
	// Unshifted punctuation is its own single-character name.
	if r < 128 && unicode.IsPunct(r) || r == '=' || r == '`' || r == '|' {
		return string(r), false, true
	}
	return "", false, false
}

// KeyToChar maps a single-character key name plus shift state to the
// character it produces on a US layout.
func KeyToChar(name string, shift bool) (rune, bool) {
	r := []rune(name)
	if len(r) != 1 {
		if name == "space" {
			return ' ', true
		}
		return 0, false
	}
	ch := r[0]
	switch {
	case ch >= 'a' && ch <= 'z':
		if shift {
			return unicode.ToUpper(ch), true
		}
		return ch, true
	case shift:
		if shifted, ok := unshiftedSymbols[name]; ok {
			return shifted, true
		}
		return ch, true
	default:
		return ch, true
	}
}
