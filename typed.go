package keyweave

import (
	"unicode"

	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// segmentKeys finalize the current string and start a fresh one.
var segmentKeys = map[string]bool{
	"enter": true,
	"tab":   true,
	"esc":   true,
}

// TypedStringScanner turns an event stream into the strings the user
// typed. It tracks shift keys and the caps-lock toggle; caps lock
// affects letters only. Feed it one event at a time, so it is safe to
// run over an infinite stream.
type TypedStringScanner struct {
	allowBackspace bool
	shiftDown      int
	capsOn         bool
	cur            []rune
}

// NewTypedStringScanner returns a scanner. With allowBackspace,
// backspace removes the last buffered character; otherwise it is
// ignored.
func NewTypedStringScanner(allowBackspace bool) *TypedStringScanner {
	return &TypedStringScanner{allowBackspace: allowBackspace}
}

// Feed consumes one event. When the event finalizes a string (enter,
// tab, escape), it returns that string and true.
func (s *TypedStringScanner) Feed(ev keyevent.Event) (string, bool) {
	name := keyname.Normalize(ev.Name)

	if keyname.Unsided(name) == "shift" {
		switch ev.Type {
		case keyevent.KeyDown:
			s.shiftDown++
		case keyevent.KeyUp:
			if s.shiftDown > 0 {
				s.shiftDown--
			}
		}
		return "", false
	}
	if ev.Type != keyevent.KeyDown {
		return "", false
	}

	switch {
	case name == "caps lock":
		s.capsOn = !s.capsOn
	case segmentKeys[name]:
		out := string(s.cur)
		s.cur = s.cur[:0]
		return out, true
	case name == "backspace":
		if s.allowBackspace && len(s.cur) > 0 {
			s.cur = s.cur[:len(s.cur)-1]
		}
	case name == "space":
		s.cur = append(s.cur, ' ')
	default:
		if ch, ok := s.charFor(name); ok {
			s.cur = append(s.cur, ch)
		}
	}
	return "", false
}

func (s *TypedStringScanner) charFor(name string) (rune, bool) {
	r := []rune(name)
	if len(r) != 1 {
		return 0, false
	}
	ch := r[0]
	shift := s.shiftDown > 0
	if unicode.IsLetter(ch) {
		if shift != s.capsOn {
			return unicode.ToUpper(ch), true
		}
		return unicode.ToLower(ch), true
	}
	return keyname.KeyToChar(name, shift)
}

// Flush returns whatever is buffered and resets the scanner's string.
func (s *TypedStringScanner) Flush() string {
	out := string(s.cur)
	s.cur = s.cur[:0]
	return out
}

// TypedStrings reconstructs the strings typed across a finite event
// list, including the trailing unfinalized string when non-empty.
func TypedStrings(events []keyevent.Event, allowBackspace bool) []string {
	s := NewTypedStringScanner(allowBackspace)
	var out []string
	for _, ev := range events {
		if str, done := s.Feed(ev); done {
			out = append(out, str)
		}
	}
	if tail := s.Flush(); tail != "" {
		out = append(out, tail)
	}
	return out
}
