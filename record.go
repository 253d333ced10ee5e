package keyweave

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/keyevent"
)

// Recorder captures the dispatched event stream, self-injected events
// included, until stopped.
type Recorder struct {
	e      *Engine
	mu     sync.Mutex
	events []keyevent.Event
	hookID uuid.UUID
	done   bool
}

// StartRecording installs a hook that appends every event to the
// recorder's queue. The hook runs in the voting pass, always voting
// allow, so that a recording stopped by a hotkey has captured the
// terminating event before the hotkey's callback can observe it.
func (e *Engine) StartRecording() (*Recorder, error) {
	r := &Recorder{e: e}
	// Runs in the voting pass but never votes suppress, so it must
	// not ask the backend for suppression capability.
	id, err := e.addHook(&hookReg{
		fn: func(ev keyevent.Event) backend.Vote {
			r.mu.Lock()
			if !r.done {
				r.events = append(r.events, ev)
			}
			r.mu.Unlock()
			return backend.Allow
		},
		suppressing: true,
	}, false)
	if err != nil {
		return nil, err
	}
	r.hookID = id
	return r, nil
}

// Events returns a snapshot of what has been captured so far.
func (r *Recorder) Events() []keyevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]keyevent.Event(nil), r.events...)
}

// Stop uninstalls the recorder's hook and drains the queue.
func (r *Recorder) Stop() []keyevent.Event {
	r.mu.Lock()
	r.done = true
	events := r.events
	r.events = nil
	r.mu.Unlock()
	r.e.Unhook(r.hookID)
	return events
}

// Record captures events until the given hotkey fires and returns the
// capture, terminating hotkey included.
func (e *Engine) Record(until string) ([]keyevent.Event, error) {
	r, err := e.StartRecording()
	if err != nil {
		return nil, err
	}
	defer r.Stop()
	if err := e.Wait(until); err != nil {
		return r.Events(), err
	}
	return r.Events(), nil
}

// Play replays a recorded event list: current key state is stashed,
// each event is synthesized with its original type and scan code
// after sleeping the recorded gap scaled by 1/speedFactor (no sleep
// when speedFactor <= 0), then the stash is restored.
func (e *Engine) Play(events []keyevent.Event, speedFactor float64) error {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	stashed, err := e.StashState()
	if err != nil {
		return err
	}

	var last float64
	for i, ev := range events {
		if speedFactor > 0 && i > 0 {
			if dt := ev.Time - last; dt > 0 {
				time.Sleep(time.Duration(dt / speedFactor * float64(time.Second)))
			}
		}
		last = ev.Time

		switch ev.Type {
		case keyevent.KeyDown:
			err = e.press(ev.ScanCode)
		case keyevent.KeyUp:
			err = e.release(ev.ScanCode)
		}
		if err != nil {
			return err
		}
	}

	return e.RestoreState(stashed)
}
