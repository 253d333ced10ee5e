//go:build darwin

// Package quartz is the macOS backend: a CGEventTap observes every
// key event, CGEventPost injects synthesized ones, and injected
// events carry a user-data marker so the hook can tell them apart.
//
// macOS requires Input Monitoring permission for the tap, and the
// process must own the main run loop; applications enter through
// Main.
package quartz

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <stdint.h>

extern int  kwStartTap(int listenOnly);
extern void kwStopTap(void);
extern void kwPostKey(int64_t keycode, int down);
extern void kwPostUnicode(uint16_t *utf16, int len);
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unicode/utf16"

	"golang.design/x/mainthread"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
	"github.com/Danondso/keyweave/keyname"
)

// Main hands the main thread to the run-loop machinery and runs the
// application body on another goroutine. macOS applications using
// this backend must call it first thing in main().
func Main(run func()) {
	mainthread.Init(run)
}

// CGEvent type constants.
const (
	cgEventKeyDown      = 10 // kCGEventKeyDown
	cgEventKeyUp        = 11 // kCGEventKeyUp
	cgEventFlagsChanged = 12 // kCGEventFlagsChanged
)

// The single tap; the engine installs exactly one hook per process.
var (
	tapMu     sync.Mutex
	activeTap *Backend
)

// Backend implements backend.Backend over Quartz event services.
type Backend struct {
	mu      sync.Mutex
	hook    backend.HookFunc
	running bool
	start   time.Time

	// modDown tracks which modifier keycodes are currently down;
	// flagsChanged events carry no direction, so each arrival
	// toggles.
	modDown map[uint16]bool
}

// New returns an uninitialized backend.
func New() *Backend {
	return &Backend{modDown: make(map[uint16]bool)}
}

// Init implements backend.Backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	b.start = time.Now()
	b.mu.Unlock()
	return nil
}

// Shutdown stops the tap.
func (b *Backend) Shutdown() error {
	tapMu.Lock()
	if activeTap == b {
		activeTap = nil
		C.kwStopTap()
	}
	tapMu.Unlock()
	b.mu.Lock()
	b.hook = nil
	b.running = false
	b.mu.Unlock()
	return nil
}

// Mapping returns the virtual-keycode table.
func (b *Backend) Mapping() ([]keyname.Entry, error) {
	return mappingEntries(), nil
}

// TagsInjected reports true: posted events carry a user-data marker.
func (b *Backend) TagsInjected() bool { return true }

type handle struct{ b *Backend }

func (h handle) Uninstall() error {
	return h.b.Shutdown()
}

// InstallHook creates the event tap on a locked OS thread; its run
// loop becomes the hub thread. Without wantsSuppression the tap is
// listen-only, which macOS grants more readily. A tap failure usually
// means missing Input Monitoring permission.
func (b *Backend) InstallHook(fn backend.HookFunc, onError func(error), wantsSuppression bool) (backend.HookHandle, error) {
	tapMu.Lock()
	if activeTap != nil {
		tapMu.Unlock()
		return nil, fmt.Errorf("event tap already installed")
	}
	activeTap = b
	tapMu.Unlock()

	b.mu.Lock()
	b.hook = fn
	b.running = true
	b.mu.Unlock()

	listenOnly := C.int(1)
	if wantsSuppression {
		listenOnly = 0
	}

	result := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if ret := C.kwStartTap(listenOnly); ret != 0 {
			result <- fmt.Errorf("failed to create event tap (grant Input Monitoring permission in System Settings > Privacy & Security)")
			return
		}
		result <- nil
	}()

	// kwStartTap blocks in the run loop on success; give it a moment
	// to fail fast on a permission error.
	select {
	case err := <-result:
		if err != nil {
			tapMu.Lock()
			activeTap = nil
			tapMu.Unlock()
			return nil, err
		}
	case <-time.After(200 * time.Millisecond):
		// A failure after the fast-fail window reaches the hub through
		// onError instead.
		go func() {
			if err := <-result; err != nil && onError != nil {
				tapMu.Lock()
				if activeTap == b {
					activeTap = nil
				}
				tapMu.Unlock()
				onError(err)
			}
		}()
	}
	return handle{b}, nil
}

// Press implements backend.Backend.
func (b *Backend) Press(code uint16) error {
	C.kwPostKey(C.int64_t(code), 1)
	return nil
}

// Release implements backend.Backend.
func (b *Backend) Release(code uint16) error {
	C.kwPostKey(C.int64_t(code), 0)
	return nil
}

// TypeUnicode posts a keyboard event carrying the character directly;
// Quartz delivers it regardless of the active layout.
func (b *Backend) TypeUnicode(r rune) error {
	units := utf16.Encode([]rune{r})
	if len(units) == 0 {
		return nil
	}
	C.kwPostUnicode((*C.uint16_t)(&units[0]), C.int(len(units)))
	return nil
}

//export kwTapCallback
func kwTapCallback(eventType C.int, keycode C.int64_t, flags C.uint64_t, timestamp C.double, injected C.int) C.int {
	tapMu.Lock()
	b := activeTap
	tapMu.Unlock()
	if b == nil {
		return 0
	}

	code := uint16(keycode)
	var t keyevent.Type
	switch int(eventType) {
	case cgEventKeyDown:
		t = keyevent.KeyDown
	case cgEventKeyUp:
		t = keyevent.KeyUp
	case cgEventFlagsChanged:
		// Modifier transitions carry no direction; toggle per keycode.
		b.mu.Lock()
		down := !b.modDown[code]
		b.modDown[code] = down
		b.mu.Unlock()
		if down {
			t = keyevent.KeyDown
		} else {
			t = keyevent.KeyUp
		}
	default:
		return 0
	}

	b.mu.Lock()
	hook := b.hook
	b.mu.Unlock()
	if hook == nil {
		return 0
	}

	row := nameByCode[code]
	vote := hook(keyevent.Event{
		Type:     t,
		ScanCode: code,
		Name:     row.name,
		Time:     float64(timestamp),
		IsKeypad: row.keypad,
		Injected: injected != 0,
	})
	if vote == backend.Suppress {
		return 1
	}
	return 0
}
