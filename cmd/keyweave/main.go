// Command keyweave records, replays, and monitors global keyboard
// events. In record and play mode stdin/stdout carry one JSON object
// per event, one per line.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/keyweave"
	"github.com/Danondso/keyweave/backend"
	"github.com/Danondso/keyweave/internal/config"
	"github.com/Danondso/keyweave/internal/tui"
	"github.com/Danondso/keyweave/keyevent"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: keyweave <command> [flags]

commands:
  record    write observed events to stdout as JSON lines
  play      replay JSON-line events from stdin
  monitor   live event viewer
  selftest  run the engine against the built-in fake backend
`)
	os.Exit(2)
}

func main() {
	runMain(run)
}

func run() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "record":
		runRecord(args)
	case "play":
		runPlay(args)
	case "monitor":
		runMonitor(args)
	case "selftest":
		os.Exit(runSelftest())
	default:
		usage()
	}
}

// commonFlags parses the flags every subcommand shares and returns
// the loaded config plus a debug logger.
func commonFlags(name string, args []string, register func(*flag.FlagSet)) (*config.Config, *log.Logger) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	debug := fs.Bool("debug", false, "enable debug logging to stderr")
	cfgPath := fs.String("config", config.DefaultPath(), "config file path")
	device := fs.String("device", "", "input device path (overrides config)")
	if register != nil {
		register(fs)
	}
	fs.Parse(args)

	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *device != "" {
		cfg.Hook.Device = *device
	}
	return cfg, dbg
}

// newEngine builds the engine on the platform backend. Backend init
// failures (missing privileges, no device) are fatal with a non-zero
// exit.
func newEngine(cfg *config.Config, dbg *log.Logger) *keyweave.Engine {
	b, err := keyweave.NewSystemBackend(keyweave.SystemOptions{Device: cfg.Hook.Device})
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	engine, err := keyweave.New(b, dbg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	return engine
}

func runRecord(args []string) {
	cfg, dbg := commonFlags("record", args, nil)
	engine := newEngine(cfg, dbg)
	defer engine.Shutdown()

	w := keyevent.NewWriter(os.Stdout)
	_, err := engine.OnPress(func(ev keyevent.Event) {
		if err := w.Write(ev); err != nil {
			dbg.Printf("write event: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("hook: %v", err)
	}
	if _, err := engine.OnRelease(func(ev keyevent.Event) {
		if err := w.Write(ev); err != nil {
			dbg.Printf("write event: %v", err)
		}
	}); err != nil {
		log.Fatalf("hook: %v", err)
	}

	dbg.Printf("recording; stop with %s or SIGINT", cfg.Hotkey.StopKey)

	stopped := make(chan struct{})
	go func() {
		if err := engine.Wait(cfg.Hotkey.StopKey); err == nil {
			close(stopped)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-stopped:
	}
}

func runPlay(args []string) {
	var speed float64
	cfg, dbg := commonFlags("play", args, func(fs *flag.FlagSet) {
		fs.Float64Var(&speed, "speed", 0, "speed factor (0 = config default)")
	})
	if speed == 0 {
		speed = cfg.Play.SpeedFactor
	}

	events, err := keyevent.NewReader(os.Stdin).ReadAll()
	if err != nil {
		log.Fatalf("read events: %v", err)
	}
	dbg.Printf("replaying %d events at speed %g", len(events), speed)

	engine := newEngine(cfg, dbg)
	defer engine.Shutdown()

	if err := engine.Play(events, speed); err != nil {
		log.Fatalf("play: %v", err)
	}
}

func runMonitor(args []string) {
	cfg, dbg := commonFlags("monitor", args, nil)
	engine := newEngine(cfg, dbg)
	defer engine.Shutdown()

	model := tui.NewModel(tui.GetTheme(cfg.Monitor.Theme), cfg.Monitor.Rows)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Observer hooks see the hub's final suppression decision on the
	// event, so the monitor can flag what other hooks dropped.
	_, err := engine.Hook(func(ev keyevent.Event) backend.Vote {
		p.Send(tui.EventMsg{Event: ev, Suppressed: ev.Suppressed})
		p.Send(tui.PressedMsg{Names: heldNames(engine)})
		return backend.Allow
	}, false)
	if err != nil {
		log.Fatalf("hook: %v", err)
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("monitor: %v", err)
	}
}

func heldNames(engine *keyweave.Engine) []string {
	table := engine.Table()
	codes := engine.PressedCodes()
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		if n := table.Name(c, false); n != "" {
			names = append(names, n)
		}
	}
	return names
}
