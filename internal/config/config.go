package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// HookConfig holds event-tap settings.
type HookConfig struct {
	// Device is an explicit input device path (Linux); empty
	// auto-detects a keyboard.
	Device string `toml:"device"`
	// Suppress is the suppression default kept in the file; the CLI
	// commands do not read it.
	Suppress bool `toml:"suppress"`
}

// HotkeyConfig holds hotkey matcher settings.
type HotkeyConfig struct {
	// TimeoutMs is a hotkey step-gap setting kept in the file; the CLI
	// commands do not read it, and the engine uses its own default.
	TimeoutMs int `toml:"timeout_ms"`
	// StopKey ends recording sessions.
	StopKey string `toml:"stop_key"`
}

// PlayConfig holds replay settings.
type PlayConfig struct {
	// SpeedFactor scales recorded gaps; 0 replays as fast as
	// possible.
	SpeedFactor float64 `toml:"speed_factor"`
}

// MonitorConfig holds live-monitor TUI settings.
type MonitorConfig struct {
	Theme string `toml:"theme"`
	// Rows is how many recent events stay on screen.
	Rows int `toml:"rows"`
}

// Config is the top-level configuration.
type Config struct {
	Hook    HookConfig    `toml:"hook"`
	Hotkey  HotkeyConfig  `toml:"hotkey"`
	Play    PlayConfig    `toml:"play"`
	Monitor MonitorConfig `toml:"monitor"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Hook: HookConfig{
			Device:   "",
			Suppress: false,
		},
		Hotkey: HotkeyConfig{
			TimeoutMs: 1000,
			StopKey:   "esc",
		},
		Play: PlayConfig{
			SpeedFactor: 1.0,
		},
		Monitor: MonitorConfig{
			Theme: "plain",
			Rows:  16,
		},
	}
}

// DefaultPath returns the default config file path
// (~/.config/keyweave/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keyweave", "config.toml")
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".keyweave-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
