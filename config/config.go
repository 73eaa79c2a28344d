// Package config holds ambient tool defaults shared by the assembler,
// disassembler, and emulator CLIs, loaded from an optional TOML file
// (spec SPEC_FULL.md Ambient Stack).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration shape. Every field has a sane
// zero-config default (see DefaultConfig) — a missing or partial file
// never blocks a run.
type Config struct {
	Assembler struct {
		Compat      bool `toml:"compat"`
		DebugTokens bool `toml:"debug_tokens"`
	} `toml:"assembler"`

	Emulator struct {
		MemorySize int  `toml:"memory_size"`
		Step       bool `toml:"step"`
		Debug      bool `toml:"debug"`
	} `toml:"emulator"`

	Display struct {
		NumberFormat string `toml:"number_format"` // "hex" or "dec"
		BytesPerLine int    `toml:"bytes_per_line"`
	} `toml:"display"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.Compat = false
	cfg.Assembler.DebugTokens = false
	cfg.Emulator.MemorySize = 65536
	cfg.Emulator.Step = false
	cfg.Emulator.Debug = false
	cfg.Display.NumberFormat = "hex"
	cfg.Display.BytesPerLine = 16
	return cfg
}

// GetConfigPath returns the platform-specific config file path:
// ~/.config/ad-tools/config.toml on darwin/linux, %APPDATA%\ad-tools on
// windows, falling back to a relative path if the home directory cannot
// be determined.
func GetConfigPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "ad-tools")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "ad-tools")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the default config file path. A missing file yields
// DefaultConfig; malformed TOML yields an error (see LoadFrom).
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads path, merging onto DefaultConfig — a missing file is not
// an error. An explicit --config path with malformed TOML is.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to the default config file path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path as TOML, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
