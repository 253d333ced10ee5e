// Package keyevent defines the key event record shared by the engine,
// the OS backends, and the JSON line stream used in command-line mode.
package keyevent

// Type is the direction of a key transition.
type Type string

const (
	KeyDown Type = "down"
	KeyUp   Type = "up"
)

// Event is a single observed or synthesized key transition.
//
// ScanCode identifies the physical key on the producing backend; the
// same logical key (e.g. "ctrl") may map to more than one scan code.
// Name is empty when the backend cannot name the code. Time is in
// monotonic seconds, taken from the OS where available. Modifiers is
// a snapshot of the modifier state at event time, populated by the
// dispatch hub rather than the backend.
type Event struct {
	Type      Type
	ScanCode  uint16
	Name      string
	Time      float64
	Device    string
	IsKeypad  bool
	Modifiers []string
	// Injected marks events synthesized by this process, on backends
	// that can tag them.
	Injected bool
	// Suppressed is the dispatch hub's final suppression decision for
	// the event. It is populated for observer hooks, which run after
	// the decision is made; voting hooks always see it false.
	Suppressed bool
}

// HasModifier reports whether name is in the event's modifier snapshot.
func (e Event) HasModifier(name string) bool {
	for _, m := range e.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}
