package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Defaults()
	if cfg.Interval != want.Interval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, want.Interval)
	}
	if cfg.MaxSamples != want.MaxSamples {
		t.Errorf("MaxSamples = %d, want %d", cfg.MaxSamples, want.MaxSamples)
	}
	if cfg.Timeout != want.Timeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, want.Timeout)
	}
	if len(cfg.Palette) == 0 {
		t.Errorf("Palette is empty, want default colors")
	}
}

func TestLoad_ParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
interval = "200ms"
max_samples = 500
timeout = "30s"
margin = 0.1
palette = ["#ffffff", "#000000"]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Interval != 200*time.Millisecond {
		t.Errorf("Interval = %v, want 200ms", cfg.Interval)
	}
	if cfg.MaxSamples != 500 {
		t.Errorf("MaxSamples = %d, want 500", cfg.MaxSamples)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Margin != 0.1 {
		t.Errorf("Margin = %v, want 0.1", cfg.Margin)
	}
	if len(cfg.Palette) != 2 {
		t.Errorf("Palette = %v, want two colors", cfg.Palette)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`interval = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`interval = "fast"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want duration error")
	}
	if !strings.Contains(err.Error(), "interval") {
		t.Errorf("error %q should name the bad option", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero samples", func(c *Config) { c.MaxSamples = 0 }, false},
		{"negative samples", func(c *Config) { c.MaxSamples = -5 }, false},
		{"zero interval", func(c *Config) { c.Interval = 0 }, false},
		{"negative margin", func(c *Config) { c.Margin = -0.1 }, false},
		{"margin of one", func(c *Config) { c.Margin = 1 }, false},
		{"empty palette", func(c *Config) { c.Palette = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
