package keyevent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// wireEvent is the line format used in command-line mode: exactly
// these keys, one object per line. Extra keys are ignored on input.
type wireEvent struct {
	EventType string  `json:"event_type"`
	ScanCode  uint16  `json:"scan_code"`
	Name      *string `json:"name"`
	Time      float64 `json:"time"`
	IsKeypad  bool    `json:"is_keypad"`
}

// Writer emits one JSON object per event, one per line, with a
// trailing newline and no pretty printing.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write serializes a single event and flushes it.
func (w *Writer) Write(ev Event) error {
	we := wireEvent{
		EventType: string(ev.Type),
		ScanCode:  ev.ScanCode,
		Time:      ev.Time,
		IsKeypad:  ev.IsKeypad,
	}
	if ev.Name != "" {
		name := ev.Name
		we.Name = &name
	}
	data, err := json.Marshal(we)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Reader parses one event per input line, tolerating trailing
// whitespace and blank lines.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Read returns the next event, or io.EOF when the stream ends.
func (r *Reader) Read() (Event, error) {
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		var we wireEvent
		if err := json.Unmarshal([]byte(line), &we); err != nil {
			return Event{}, fmt.Errorf("parse event line: %w", err)
		}
		ev := Event{
			Type:     Type(we.EventType),
			ScanCode: we.ScanCode,
			Time:     we.Time,
			IsKeypad: we.IsKeypad,
		}
		if we.Name != nil {
			ev.Name = *we.Name
		}
		return ev, nil
	}
	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// ReadAll drains the stream into a slice.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Read()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}
