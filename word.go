package keyweave

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// DefaultWordTimeout resets a half-typed word after a pause.
const DefaultWordTimeout = 2 * time.Second

// WordOptions tune a word listener registration.
type WordOptions struct {
	// Triggers are the keys that cause the buffer to be tested;
	// default is the space key.
	Triggers []string
	// MatchSuffix matches when the buffer merely ends with the word
	// instead of equaling it.
	MatchSuffix bool
	// Timeout resets the buffer after a typing pause; zero means
	// DefaultWordTimeout.
	Timeout time.Duration
}

// wordListener reconstructs typed characters from key-down events and
// fires when the configured word is followed by a trigger key. State
// is only touched on the hub thread.
type wordListener struct {
	e           *Engine
	word        string
	callback    func()
	triggers    map[string]bool
	matchSuffix bool
	timeout     float64

	buffer       strings.Builder
	lastCharTime float64
}

func (w *wordListener) onEvent(ev keyevent.Event) backend.Vote {
	if ev.Injected || ev.Type != keyevent.KeyDown {
		return backend.Allow
	}

	// Any modifier beyond shift means the key is a command, not text.
	for _, m := range ev.Modifiers {
		if m != "shift" {
			w.buffer.Reset()
			return backend.Allow
		}
	}

	name := keyname.Normalize(ev.Name)
	shift := ev.HasModifier("shift")

	// A bare shift press is part of typing a capital, not input of
	// its own.
	if keyname.IsModifier(name) {
		return backend.Allow
	}

	if w.triggers[name] {
		typed := w.buffer.String()
		matched := typed == w.word
		if w.matchSuffix {
			matched = strings.HasSuffix(typed, w.word)
		}
		w.buffer.Reset()
		if matched {
			w.e.spawn(w.callback)
		}
		return backend.Allow
	}

	if ch, ok := eventChar(name, shift); ok {
		if w.buffer.Len() > 0 && ev.Time-w.lastCharTime > w.timeout {
			w.buffer.Reset()
		}
		w.buffer.WriteRune(ch)
		w.lastCharTime = ev.Time
		return backend.Allow
	}

	w.buffer.Reset()
	return backend.Allow
}

// eventChar maps a key name plus shift state to the character it
// types, or reports false for non-character keys.
func eventChar(name string, shift bool) (rune, bool) {
	if len([]rune(name)) != 1 {
		return 0, false
	}
	return keyname.KeyToChar(name, shift)
}

// AddWordListener fires callback whenever the user types word and
// then one of the trigger keys. Matching is case-sensitive. The
// listener observes only; it never suppresses.
func (e *Engine) AddWordListener(word string, callback func(), opts *WordOptions) (uuid.UUID, error) {
	var o WordOptions
	if opts != nil {
		o = *opts
	}
	if len(o.Triggers) == 0 {
		o.Triggers = []string{"space"}
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultWordTimeout
	}
	w := &wordListener{
		e:           e,
		word:        word,
		callback:    callback,
		triggers:    make(map[string]bool, len(o.Triggers)),
		matchSuffix: o.MatchSuffix,
		timeout:     timeout.Seconds(),
	}
	for _, t := range o.Triggers {
		w.triggers[keyname.Normalize(t)] = true
	}
	return e.Hook(w.onEvent, false)
}

// AddAbbreviation replaces source with replacement after the user
// types it followed by space: the typed word and its trigger are
// erased with backspaces, then the replacement is written.
func (e *Engine) AddAbbreviation(source, replacement string) (uuid.UUID, error) {
	return e.AddWordListener(source, func() {
		for i := 0; i < len([]rune(source))+1; i++ {
			if err := e.Send("backspace"); err != nil {
				e.logger.Printf("abbreviation %q: %v", source, err)
				return
			}
		}
		if err := e.Write(replacement, nil); err != nil {
			e.logger.Printf("abbreviation %q: %v", source, err)
		}
	}, nil)
}
