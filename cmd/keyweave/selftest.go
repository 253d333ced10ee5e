package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Danondso/keyweave"
	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/backend/fake"
	"github.com/Danondso/keyweave/keyevent"
)

// runSelftest drives the engine against the fake backend so the CLI
// can prove itself on machines without input privileges. Returns the
// process exit code.
func runSelftest() int {
	fails := 0
	check := func(name string, ok bool) {
		if ok {
			fmt.Printf("PASS  %s\n", name)
		} else {
			fmt.Printf("FAIL  %s\n", name)
			fails++
		}
	}

	b := fake.New()
	engine, err := keyweave.New(b, log.New(os.Stderr, "[selftest] ", 0))
	if err != nil {
		fmt.Printf("FAIL  engine: %v\n", err)
		return 1
	}
	defer engine.Shutdown()

	// Single-key hotkey fires and does not suppress.
	fired := make(chan struct{}, 1)
	if _, err := engine.AddHotkey("space", func() { fired <- struct{}{} }, nil); err != nil {
		fmt.Printf("FAIL  add hotkey: %v\n", err)
		return 1
	}
	vote := b.Inject(keyevent.KeyDown, 57, 0)
	check("space hotkey fires", await(fired))
	check("space not suppressed", vote == backend.Allow)
	b.Inject(keyevent.KeyUp, 57, 0.01)

	// Chord with suppression: only the completing key is dropped.
	if _, err := engine.AddHotkey("ctrl+shift+a", func() { fired <- struct{}{} },
		&keyweave.HotkeyOptions{Suppress: true}); err != nil {
		fmt.Printf("FAIL  add chord: %v\n", err)
		return 1
	}
	v1 := b.Inject(keyevent.KeyDown, 29, 1.0)
	v2 := b.Inject(keyevent.KeyDown, 42, 1.01)
	v3 := b.Inject(keyevent.KeyDown, 30, 1.02)
	check("chord fires on final key", await(fired))
	check("chord suppresses final key only",
		v1 == backend.Allow && v2 == backend.Allow && v3 == backend.Suppress)

	// Write synthesizes through the backend.
	b.ResetOps()
	if err := engine.Write("hi", nil); err != nil {
		fmt.Printf("FAIL  write: %v\n", err)
		fails++
	}
	ops := b.Ops()
	check("write produced key events", len(ops) > 0)

	if fails > 0 {
		fmt.Printf("%d failure(s)\n", fails)
		return 1
	}
	fmt.Println("all checks passed")
	return 0
}

// await gives the detached callback goroutine a moment to run.
func await(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(time.Second):
		return false
	}
}
