// Package app drives the emulation core: it owns the frame loop, feeds
// input, and renders the conventional RAM display buffer.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds driver configuration. The core itself is configuration-free;
// everything here tunes the frame loop around it.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Title string `json:"title"`
	Scale int    `json:"scale"` // display buffer pixel multiplier
}

// EmulationConfig contains frame-loop pacing configuration.
type EmulationConfig struct {
	// StepsPerFrame is the instruction budget executed per video frame.
	StepsPerFrame int `json:"steps_per_frame"`
}

// DebugConfig contains debug output configuration.
type DebugConfig struct {
	Trace bool `json:"trace"` // log each executed instruction
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title: "nescore",
			Scale: 10,
		},
		Emulation: EmulationConfig{
			StepsPerFrame: 500,
		},
	}
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	return filepath.Join("config", "nescore.json")
}

// LoadConfig reads a JSON config file, falling back to defaults when the
// file does not exist. A file that exists but fails to parse is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Window.Scale <= 0 {
		cfg.Window.Scale = DefaultConfig().Window.Scale
	}
	if cfg.Emulation.StepsPerFrame <= 0 {
		cfg.Emulation.StepsPerFrame = DefaultConfig().Emulation.StepsPerFrame
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON, creating the parent
// directory if needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
