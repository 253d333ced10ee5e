//go:build linux

// Package evdev is the Linux backend: it reads key events from an
// evdev keyboard device and injects synthesized events through a
// created uinput device. Suppression uses an exclusive grab on the
// source device, taken only when the hub asks for suppression
// capability; because a grab is all-or-nothing, allowed events are
// re-emitted through the uinput device so other applications still
// see them. Observe-only sessions never grab.
package evdev

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	goevdev "github.com/holoplot/go-evdev"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/internal/clipboard"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// Options configure the backend.
type Options struct {
	// Device is an explicit device path; empty auto-detects a
	// keyboard.
	Device string
}

// Backend implements backend.Backend over /dev/input and /dev/uinput.
type Backend struct {
	opts Options

	mu      sync.Mutex
	dev     *goevdev.InputDevice
	out     *goevdev.InputDevice
	fn      backend.HookFunc
	onError func(error)
	grabbed bool
	closed  bool
	looping bool
}

// New returns an uninitialized backend.
func New(opts Options) *Backend {
	return &Backend{opts: opts}
}

// Init opens the source keyboard and creates the injection device.
func (b *Backend) Init() error {
	dev, err := findKeyboard(b.opts.Device)
	if err != nil {
		return err
	}
	out, err := createInjector()
	if err != nil {
		dev.Close()
		return err
	}
	b.mu.Lock()
	b.dev = dev
	b.out = out
	b.mu.Unlock()
	return nil
}

// Shutdown releases the devices.
func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.grabbed && b.dev != nil {
		_ = b.dev.Ungrab()
		b.grabbed = false
	}
	if b.dev != nil {
		_ = b.dev.Close()
		b.dev = nil
	}
	if b.out != nil {
		_ = b.out.Close()
		b.out = nil
	}
	return nil
}

// Mapping returns the evdev key table.
func (b *Backend) Mapping() ([]keyname.Entry, error) {
	return mappingEntries(), nil
}

// TagsInjected reports false: the hook reads only the physical
// keyboard, so this backend's own output never loops back at all.
func (b *Backend) TagsInjected() bool { return false }

type handle struct{ b *Backend }

func (h handle) Uninstall() error {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	h.b.fn = nil
	h.b.onError = nil
	if h.b.grabbed && h.b.dev != nil {
		_ = h.b.dev.Ungrab()
		h.b.grabbed = false
	}
	return nil
}

// InstallHook starts delivering events to fn from the read loop,
// which becomes the hub thread. With wantsSuppression the source
// device is grabbed and allowed events are mirrored through uinput;
// without it the device is read shared. The read loop is started once
// and survives uninstall-reinstall cycles (the hub reinstalls to
// upgrade an observe-only session to a suppressing one), skipping
// delivery while no hook is set.
func (b *Backend) InstallHook(fn backend.HookFunc, onError func(error), wantsSuppression bool) (backend.HookHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev == nil || b.closed {
		return nil, fmt.Errorf("device not open")
	}
	if b.fn != nil {
		return nil, fmt.Errorf("hook already installed")
	}
	if wantsSuppression && !b.grabbed {
		if err := b.dev.Grab(); err != nil {
			return nil, fmt.Errorf("grab %s: %w", b.dev.Path(), err)
		}
		b.grabbed = true
	}
	b.fn = fn
	b.onError = onError
	if !b.looping {
		b.looping = true
		go b.readLoop()
	}
	return handle{b}, nil
}

func (b *Backend) readLoop() {
	defer func() {
		b.mu.Lock()
		b.looping = false
		b.mu.Unlock()
	}()
	for {
		b.mu.Lock()
		dev := b.dev
		closed := b.closed
		b.mu.Unlock()
		if closed || dev == nil {
			return
		}

		ev, err := dev.ReadOne()
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			b.mu.Lock()
			closed = b.closed
			onError := b.onError
			b.mu.Unlock()
			if closed || isClosedErr(err) {
				return
			}
			// Device gone (unplug) or persistently unreadable: report
			// so the hub can tear down instead of spinning.
			if onError != nil {
				onError(fmt.Errorf("read %s: %w", dev.Path(), err))
			}
			return
		}
		if ev.Type != goevdev.EV_KEY {
			continue
		}

		var t keyevent.Type
		switch ev.Value {
		case 1, 2: // press and autorepeat both count as down
			t = keyevent.KeyDown
		case 0:
			t = keyevent.KeyUp
		default:
			continue
		}

		b.mu.Lock()
		fn := b.fn
		b.mu.Unlock()
		if fn == nil {
			continue
		}

		code := uint16(ev.Code)
		row := nameByCode[code]
		event := keyevent.Event{
			Type:     t,
			ScanCode: code,
			Name:     row.name,
			Time:     float64(ev.Time.Sec) + float64(ev.Time.Usec)/1e6,
			Device:   dev.Path(),
			IsKeypad: row.keypad,
		}

		vote := fn(event)

		b.mu.Lock()
		mirror := b.grabbed && vote == backend.Allow && b.out != nil
		out := b.out
		b.mu.Unlock()
		if mirror {
			_ = writeKey(out, ev.Code, ev.Value)
		}
	}
}

func isClosedErr(err error) bool {
	return os.IsNotExist(err) ||
		strings.Contains(err.Error(), "file already closed") ||
		strings.Contains(err.Error(), "bad file descriptor")
}

// Press implements backend.Backend.
func (b *Backend) Press(code uint16) error {
	return b.inject(code, 1)
}

// Release implements backend.Backend.
func (b *Backend) Release(code uint16) error {
	return b.inject(code, 0)
}

func (b *Backend) inject(code uint16, value int32) error {
	b.mu.Lock()
	out := b.out
	b.mu.Unlock()
	if out == nil {
		return fmt.Errorf("injection device not open")
	}
	return writeKey(out, goevdev.EvCode(code), value)
}

func writeKey(out *goevdev.InputDevice, code goevdev.EvCode, value int32) error {
	key := goevdev.InputEvent{Type: goevdev.EV_KEY, Code: code, Value: value}
	if err := out.WriteOne(&key); err != nil {
		return fmt.Errorf("write key event: %w", err)
	}
	syn := goevdev.InputEvent{Type: goevdev.EV_SYN, Code: goevdev.EvCode(goevdev.SYN_REPORT), Value: 0}
	if err := out.WriteOne(&syn); err != nil {
		return fmt.Errorf("write syn event: %w", err)
	}
	return nil
}

// TypeUnicode falls back to the clipboard-and-paste path; characters
// absent from the layout cannot be produced through uinput key codes.
func (b *Backend) TypeUnicode(r rune) error {
	return clipboard.PasteText(string(r), 0)
}

// findKeyboard opens an explicit device path, or picks the input
// device that covers the most of the key table. The full alphabet is
// required, which rules out power buttons and lid switches, and
// anything with relative axes (mice, trackpads) is rejected outright.
func findKeyboard(devicePath string) (*goevdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := goevdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	paths, err := goevdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var best *goevdev.InputDevice
	bestScore := 0
	for _, p := range paths {
		dev, err := goevdev.Open(p.Path)
		if err != nil {
			continue
		}
		if score := keyboardScore(dev); score > bestScore {
			if best != nil {
				_ = best.Close()
			}
			best, bestScore = dev, score
			continue
		}
		_ = dev.Close()
	}
	if best == nil {
		return nil, fmt.Errorf("no keyboard device found under /dev/input")
	}
	return best, nil
}

// keyboardScore counts how many keys of the key table a device can
// emit. Devices with relative axes score zero, as does anything
// missing part of the alphabet.
func keyboardScore(dev *goevdev.InputDevice) int {
	for _, evType := range dev.CapableTypes() {
		if evType == goevdev.EV_REL {
			return 0
		}
	}

	letters := 0
	score := 0
	for _, code := range dev.CapableEvents(goevdev.EV_KEY) {
		c := uint16(code)
		if _, ok := nameByCode[c]; !ok {
			continue
		}
		score++
		if letterCodes[c] {
			letters++
		}
	}
	if letters < len(letterCodes) {
		return 0
	}
	return score
}

// createInjector registers a uinput device capable of every key in
// the table.
func createInjector() (*goevdev.InputDevice, error) {
	codes := make([]goevdev.EvCode, 0, len(keyTable))
	for _, row := range keyTable {
		codes = append(codes, goevdev.EvCode(row.code))
	}
	dev, err := goevdev.CreateDevice("keyweave-injector", goevdev.InputID{
		BusType: 0x03, // USB
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}, map[goevdev.EvType][]goevdev.EvCode{
		goevdev.EV_KEY: codes,
	})
	if err != nil {
		return nil, fmt.Errorf("create uinput device (is /dev/uinput accessible?): %w", err)
	}
	return dev, nil
}
