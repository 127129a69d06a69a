package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"negative top margin", func(c *Config) { c.Window.TopMargin = -5 }},
		{"zero move step", func(c *Config) { c.Window.MoveStep = 0 }},
		{"zero interval", func(c *Config) { c.Follow.IntervalMS = 0 }},
		{"negative cooldown", func(c *Config) { c.Follow.CooldownMS = -1 }},
		{"negative override", func(c *Config) { c.Follow.ManualOverrideMS = -1 }},
		{"zero mouse threshold", func(c *Config) { c.Follow.MouseThresholdPX = 0 }},
		{"opacity zero", func(c *Config) { c.Incognito.Opacity = 0 }},
		{"opacity above one", func(c *Config) { c.Incognito.Opacity = 1.5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got error: %v", err)
	}
	if cfg.Window.Width != 400 || cfg.Follow.IntervalMS != 1000 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
window:
  width: 600
follow:
  cooldown_ms: 3000
incognito:
  opacity: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 600 {
		t.Errorf("expected width 600, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 300 {
		t.Errorf("expected default height 300, got %d", cfg.Window.Height)
	}
	if cfg.Cooldown() != 3*time.Second {
		t.Errorf("expected 3s cooldown, got %v", cfg.Cooldown())
	}
	if cfg.Incognito.Opacity != 0.5 {
		t.Errorf("expected opacity 0.5, got %v", cfg.Incognito.Opacity)
	}
}

func TestLoadFromPathInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("window:\n  width: -10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected validation error for negative width")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 512
	cfg.Hotkeys.ToggleVisibility = "mod4-grave"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Window.Width != 512 {
		t.Errorf("expected width 512, got %d", loaded.Window.Width)
	}
	if loaded.Hotkeys.ToggleVisibility != "mod4-grave" {
		t.Errorf("expected hotkey round trip, got %q", loaded.Hotkeys.ToggleVisibility)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Follow.IntervalMS = 0
	if err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Fatal("expected save to reject invalid config")
	}
}
