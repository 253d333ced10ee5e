package keyweave

import (
	"fmt"
	"time"

	"github.com/Danondso/keyweave/keyname"
)

// WriteOptions tune Write. The zero value types as fast as possible,
// restores the previously-held keys afterward, and uses the layout
// path where it can.
type WriteOptions struct {
	// Delay is the pause between characters; zero or negative means
	// no pause.
	Delay time.Duration
	// NoRestore leaves the stashed keys released after typing.
	NoRestore bool
	// Exact forces the backend Unicode fallback for every character.
	Exact bool
}

// Press synthesizes key-downs for a hotkey, walking steps in order
// and pressing each KeyClass's first scan code.
func (e *Engine) Press(spec string) error {
	h, err := e.ParseHotkey(spec)
	if err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	return e.sendParsed(h, true, false)
}

// Release synthesizes key-ups for a hotkey.
func (e *Engine) Release(spec string) error {
	h, err := e.ParseHotkey(spec)
	if err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	return e.sendParsed(h, false, true)
}

// Send presses and releases a hotkey: within each step keys go down
// in order, the trailing key last, and come back up in reverse.
func (e *Engine) Send(spec string) error {
	h, err := e.ParseHotkey(spec)
	if err != nil {
		return err
	}
	return e.SendParsed(h)
}

// SendParsed is Send for an already-compiled hotkey.
func (e *Engine) SendParsed(h Hotkey) error {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	return e.sendParsed(h, true, true)
}

func (e *Engine) sendParsed(h Hotkey, doPress, doRelease bool) error {
	for _, step := range h.steps {
		if doPress {
			for _, class := range step {
				if err := e.press(class[0]); err != nil {
					return err
				}
			}
		}
		if doRelease {
			for i := len(step) - 1; i >= 0; i-- {
				if err := e.release(step[i][0]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Engine) press(code uint16) error {
	if err := e.backend.Press(code); err != nil {
		return fmt.Errorf("%w: press %d: %v", ErrInjectionFailed, code, err)
	}
	return nil
}

func (e *Engine) release(code uint16) error {
	if err := e.backend.Release(code); err != nil {
		return fmt.Errorf("%w: release %d: %v", ErrInjectionFailed, code, err)
	}
	return nil
}

// StashState releases every currently-held key, modifiers first, and
// returns the released codes in release order. RestoreState re-presses
// them in reverse.
func (e *Engine) StashState() ([]uint16, error) {
	table := e.Table()
	codes := e.PressedCodes()
	stashed := make([]uint16, 0, len(codes))
	for _, c := range codes {
		if keyname.IsModifier(table.Name(c, false)) {
			stashed = append(stashed, c)
		}
	}
	for _, c := range codes {
		if !keyname.IsModifier(table.Name(c, false)) {
			stashed = append(stashed, c)
		}
	}
	for _, c := range stashed {
		if err := e.release(c); err != nil {
			return stashed, err
		}
	}
	return stashed, nil
}

// RestoreState re-presses a stashed snapshot in reverse order.
func (e *Engine) RestoreState(stashed []uint16) error {
	for i := len(stashed) - 1; i >= 0; i-- {
		if err := e.press(stashed[i]); err != nil {
			return err
		}
	}
	return nil
}

// RestoreModifiers re-presses only the modifier keys of a stashed
// snapshot.
func (e *Engine) RestoreModifiers(stashed []uint16) error {
	table := e.Table()
	for i := len(stashed) - 1; i >= 0; i-- {
		if !keyname.IsModifier(table.Name(stashed[i], false)) {
			continue
		}
		if err := e.press(stashed[i]); err != nil {
			return err
		}
	}
	return nil
}

// Write types text into the focused application: held keys are
// stashed first so they cannot corrupt the output, each character is
// produced through the layout (at most shift plus one key) or the
// backend's Unicode fallback, and the stash is restored afterward
// unless opts.NoRestore is set.
func (e *Engine) Write(text string, opts *WriteOptions) error {
	var o WriteOptions
	if opts != nil {
		o = *opts
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	stashed, err := e.StashState()
	if err != nil {
		return err
	}

	table := e.Table()
	shiftCodes := table.ScanCodes("shift")
	runes := []rune(text)
	for i, r := range runes {
		if err := e.writeRune(table, shiftCodes, r, o.Exact); err != nil {
			return err
		}
		if o.Delay > 0 && i < len(runes)-1 {
			time.Sleep(o.Delay)
		}
	}

	if !o.NoRestore {
		return e.RestoreState(stashed)
	}
	return nil
}

func (e *Engine) writeRune(table *keyname.Table, shiftCodes []uint16, r rune, exact bool) error {
	if !exact {
		if name, shift, ok := keyname.CharToKey(r); ok {
			if codes := table.ScanCodes(name); len(codes) > 0 {
				code := codes[0]
				if shift && len(shiftCodes) > 0 {
					if err := e.press(shiftCodes[0]); err != nil {
						return err
					}
				}
				if err := e.press(code); err != nil {
					return err
				}
				if err := e.release(code); err != nil {
					return err
				}
				if shift && len(shiftCodes) > 0 {
					if err := e.release(shiftCodes[0]); err != nil {
						return err
					}
				}
				return nil
			}
		}
	}
	if err := e.backend.TypeUnicode(r); err != nil {
		return fmt.Errorf("%w: type %q: %v", ErrInjectionFailed, r, err)
	}
	return nil
}
