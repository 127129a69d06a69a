package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WindowConfig describes the overlay window surface.
type WindowConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TopMargin int `yaml:"top_margin"` // distance from the top display edge
	MoveStep  int `yaml:"move_step"`  // pixels per directional nudge
}

// FollowConfig tunes the desktop-follow loop.
type FollowConfig struct {
	IntervalMS       int `yaml:"interval_ms"`        // follow-detection tick period
	CooldownMS       int `yaml:"cooldown_ms"`        // minimum gap between automatic repositions
	ManualOverrideMS int `yaml:"manual_override_ms"` // follow suppression after a manual move
	MouseThresholdPX int `yaml:"mouse_threshold_px"` // pointer jump treated as a desktop switch
}

// IncognitoConfig tunes the screen-capture-invisible mode.
type IncognitoConfig struct {
	Opacity float64 `yaml:"opacity"` // dimmed opacity while incognito, (0,1]
}

// HotkeysConfig maps actions to X11 key sequences (xgbutil keybind syntax,
// e.g. "mod4-shift-i"). Empty entries leave the action unbound.
type HotkeysConfig struct {
	ToggleVisibility string `yaml:"toggle_visibility"`
	ToggleIncognito  string `yaml:"toggle_incognito"`
	MoveLeft         string `yaml:"move_left"`
	MoveRight        string `yaml:"move_right"`
	MoveUp           string `yaml:"move_up"`
	MoveDown         string `yaml:"move_down"`
	QuickNote        string `yaml:"quick_note"`
}

// NotesConfig configures note and conversation persistence.
type NotesConfig struct {
	Dir string `yaml:"dir"` // default: ~/.config/smartcue
}

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
}

// Config is the root configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Follow    FollowConfig    `yaml:"follow"`
	Incognito IncognitoConfig `yaml:"incognito"`
	Hotkeys   HotkeysConfig   `yaml:"hotkeys"`
	Notes     NotesConfig     `yaml:"notes"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     400,
			Height:    300,
			TopMargin: 50,
			MoveStep:  50,
		},
		Follow: FollowConfig{
			IntervalMS:       1000,
			CooldownMS:       2000,
			ManualOverrideMS: 5000,
			MouseThresholdPX: 500,
		},
		Incognito: IncognitoConfig{
			Opacity: 0.8,
		},
		Hotkeys: HotkeysConfig{
			ToggleVisibility: "mod4-shift-h",
			ToggleIncognito:  "mod4-shift-i",
			MoveLeft:         "mod4-shift-Left",
			MoveRight:        "mod4-shift-Right",
			MoveUp:           "mod4-shift-Up",
			MoveDown:         "mod4-shift-Down",
			QuickNote:        "mod4-shift-n",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TopMargin < 0 {
		return fmt.Errorf("window top_margin must not be negative, got %d", c.Window.TopMargin)
	}
	if c.Window.MoveStep <= 0 {
		return fmt.Errorf("window move_step must be positive, got %d", c.Window.MoveStep)
	}
	if c.Follow.IntervalMS <= 0 {
		return fmt.Errorf("follow interval_ms must be positive, got %d", c.Follow.IntervalMS)
	}
	if c.Follow.CooldownMS < 0 {
		return fmt.Errorf("follow cooldown_ms must not be negative, got %d", c.Follow.CooldownMS)
	}
	if c.Follow.ManualOverrideMS < 0 {
		return fmt.Errorf("follow manual_override_ms must not be negative, got %d", c.Follow.ManualOverrideMS)
	}
	if c.Follow.MouseThresholdPX <= 0 {
		return fmt.Errorf("follow mouse_threshold_px must be positive, got %d", c.Follow.MouseThresholdPX)
	}
	if c.Incognito.Opacity <= 0 || c.Incognito.Opacity > 1 {
		return fmt.Errorf("incognito opacity must be in (0,1], got %v", c.Incognito.Opacity)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}

// FollowInterval returns the tick period as a duration.
func (c *Config) FollowInterval() time.Duration {
	return time.Duration(c.Follow.IntervalMS) * time.Millisecond
}

// Cooldown returns the reposition cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Follow.CooldownMS) * time.Millisecond
}

// ManualOverride returns the manual-move suppression window as a duration.
func (c *Config) ManualOverride() time.Duration {
	return time.Duration(c.Follow.ManualOverrideMS) * time.Millisecond
}

// NotesDir returns the configured notes directory, defaulting to the config
// directory.
func (c *Config) NotesDir() (string, error) {
	if c.Notes.Dir != "" {
		return c.Notes.Dir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return dir, nil
}

// Dir returns the smartcue config directory.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "smartcue"), nil
}

// DefaultConfigPath returns the standard configuration file location.
func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
