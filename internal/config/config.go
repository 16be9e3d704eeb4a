// Package config loads logscope settings from the user config file and
// applies defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all tunable settings. Flag values are merged on top by
// the caller; Validate runs on the final result.
type Config struct {
	// Interval is the poll/redraw cadence.
	Interval time.Duration
	// MaxSamples is the sliding-window capacity per series.
	MaxSamples int
	// Timeout bounds the wait for the log file to appear at startup.
	Timeout time.Duration
	// Margin pads the auto-scaled axis bounds, as a fraction of the
	// data range.
	Margin float64
	// Palette is the series color cycle, as hex colors.
	Palette []string
	// DebugLog is an optional diagnostics file path.
	DebugLog string
}

const defaultConfigPath = "~/.config/logscope/config.toml"

// Defaults match the original capture tooling: a 50ms redraw, 100
// samples per series, and a 10s wait for the log file.
func Defaults() Config {
	return Config{
		Interval:   50 * time.Millisecond,
		MaxSamples: 100,
		Timeout:    10 * time.Second,
		Margin:     0.05,
		Palette: []string{
			"#2d8ff3", "#fc585e", "#1aaf54",
			"#e05fba", "#e37529", "#f65394",
		},
	}
}

// Load reads the config file at path (empty means the default location),
// falling back to defaults when the file is missing.
func Load(path string) (Config, error) {
	cfg := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Interval   string   `toml:"interval"`
		MaxSamples *int     `toml:"max_samples"`
		Timeout    string   `toml:"timeout"`
		Margin     *float64 `toml:"margin"`
		Palette    []string `toml:"palette"`
		DebugLog   string   `toml:"debug_log"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if s := strings.TrimSpace(raw.Interval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("config interval: %w", err)
		}
		cfg.Interval = d
	}
	if raw.MaxSamples != nil {
		cfg.MaxSamples = *raw.MaxSamples
	}
	if s := strings.TrimSpace(raw.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("config timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if raw.Margin != nil {
		cfg.Margin = *raw.Margin
	}
	if len(raw.Palette) > 0 {
		cfg.Palette = raw.Palette
	}
	if s := strings.TrimSpace(raw.DebugLog); s != "" {
		cfg.DebugLog = mustExpand(s)
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.MaxSamples <= 0 {
		return fmt.Errorf("max samples must be positive, got %d", c.MaxSamples)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Margin < 0 || c.Margin >= 1 {
		return fmt.Errorf("margin must be in [0, 1), got %v", c.Margin)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must list at least one color")
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
