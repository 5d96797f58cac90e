package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/dshills/gamemaker/internal/input"
)

// Storage drivers.
const (
	DriverFS     = "fs"
	DriverSQLite = "sqlite"
)

// Config is the complete runtime configuration.
type Config struct {
	Display  DisplayConfig  `toml:"display" envPrefix:"DISPLAY_"`
	Touch    TouchConfig    `toml:"touch" envPrefix:"TOUCH_"`
	Plugin   PluginConfig   `toml:"plugin" envPrefix:"PLUGIN_"`
	Storage  StorageConfig  `toml:"storage" envPrefix:"STORAGE_"`
	Generate GenerateConfig `toml:"generate" envPrefix:"GENERATE_"`
	Logging  LoggingConfig  `toml:"logging" envPrefix:"LOG_"`

	// SplashMS is how long the splash screen stays up.
	SplashMS int `toml:"splash_ms" env:"SPLASH_MS"`
}

// DisplayConfig describes the panel and the frame rate.
type DisplayConfig struct {
	Width  int `toml:"width" env:"WIDTH"`
	Height int `toml:"height" env:"HEIGHT"`
	FPS    int `toml:"fps" env:"FPS"`
}

// TouchConfig configures touch handling.
type TouchConfig struct {
	// DebounceMS is the per-screen debounce window.
	DebounceMS  int               `toml:"debounce_ms" env:"DEBOUNCE_MS"`
	Calibration input.Calibration `toml:"calibration" envPrefix:"CAL_"`
}

// PluginConfig configures the plugin runner.
type PluginConfig struct {
	// CallBudgetMS bounds one guarded plugin call. Zero disables the
	// watchdog.
	CallBudgetMS int `toml:"call_budget_ms" env:"CALL_BUDGET_MS"`
	// StatsEvery is the number of frames between frame statistics lines.
	// Negative disables them.
	StatsEvery int `toml:"stats_every" env:"STATS_EVERY"`
}

// StorageConfig selects and configures the plugin store.
type StorageConfig struct {
	Driver string `toml:"driver" env:"DRIVER"`
	// Dir is the root holding the games and apps collections for the fs
	// driver.
	Dir string `toml:"dir" env:"DIR"`
	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `toml:"sqlite_path" env:"SQLITE_PATH"`
	// Watch reloads metadata edited outside the process.
	Watch bool `toml:"watch" env:"WATCH"`
	// Limit caps the number of plugins per collection.
	Limit int `toml:"limit" env:"LIMIT"`
}

// GenerateConfig selects the text model.
type GenerateConfig struct {
	Provider      string `toml:"provider" env:"PROVIDER"`
	Model         string `toml:"model" env:"MODEL"`
	APIKey        string `toml:"api_key" env:"API_KEY"`
	MaxTokens     int    `toml:"max_tokens" env:"MAX_TOKENS"`
	SuggestTokens int    `toml:"suggest_tokens" env:"SUGGEST_TOKENS"`
	// Settings is the JSON file holding user-editable generation settings.
	Settings string `toml:"settings" env:"SETTINGS"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	// File receives logs when set. The terminal display always logs to a
	// file since it owns the tty.
	File string `toml:"file" env:"FILE"`
	// JSON writes records as JSON objects instead of text.
	JSON bool `toml:"json" env:"JSON"`
}

// FT6x36 factory calibration for the 320x480 panel.
var defaultCalibration = input.Calibration{AX: 0.956, BX: 6.533, AY: 1, BY: 0}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Width: 320, Height: 480, FPS: 30},
		Touch: TouchConfig{
			DebounceMS:  20,
			Calibration: defaultCalibration,
		},
		Plugin: PluginConfig{CallBudgetMS: 2000, StatsEvery: 300},
		Storage: StorageConfig{
			Driver:     DriverFS,
			Dir:        "data",
			SQLitePath: filepath.Join("data", "gamemaker.db"),
			Limit:      20,
		},
		Generate: GenerateConfig{
			MaxTokens:     8000,
			SuggestTokens: 100,
			Settings:      filepath.Join("data", "settings.json"),
		},
		Logging:  LoggingConfig{Level: "info"},
		SplashMS: 3000,
	}
}

var (
	knownDrivers   = []string{DriverFS, DriverSQLite}
	knownProviders = []string{"", "anthropic", "openai", "google", "static"}
	knownLevels    = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate checks the merged configuration and reports every problem.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		add("display", "size %dx%d must be positive", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPS <= 0 || c.Display.FPS > 240 {
		add("display.fps", "%d out of range 1..240", c.Display.FPS)
	}
	if c.Touch.DebounceMS < 0 {
		add("touch.debounce_ms", "%d must not be negative", c.Touch.DebounceMS)
	}
	if err := c.Touch.Calibration.Validate(); err != nil {
		add("touch.calibration", "%v", err)
	}
	if c.Plugin.CallBudgetMS < 0 {
		add("plugin.call_budget_ms", "%d must not be negative", c.Plugin.CallBudgetMS)
	}
	if !slices.Contains(knownDrivers, c.Storage.Driver) {
		add("storage.driver", "unknown driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverFS && c.Storage.Dir == "" {
		add("storage.dir", "required for the fs driver")
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		add("storage.sqlite_path", "required for the sqlite driver")
	}
	if c.Storage.Limit <= 0 {
		add("storage.limit", "%d must be positive", c.Storage.Limit)
	}
	if !slices.Contains(knownProviders, c.Generate.Provider) {
		add("generate.provider", "unknown provider %q", c.Generate.Provider)
	}
	if c.Generate.MaxTokens <= 0 {
		add("generate.max_tokens", "%d must be positive", c.Generate.MaxTokens)
	}
	if !slices.Contains(knownLevels, c.Logging.Level) {
		add("logging.level", "unknown level %q", c.Logging.Level)
	}
	if c.SplashMS < 0 {
		add("splash_ms", "%d must not be negative", c.SplashMS)
	}

	return errors.Join(errs...)
}

// Debounce returns the touch debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Touch.DebounceMS) * time.Millisecond
}

// CallBudget returns the per-call plugin watchdog budget.
func (c *Config) CallBudget() time.Duration {
	return time.Duration(c.Plugin.CallBudgetMS) * time.Millisecond
}

// Splash returns the splash screen duration.
func (c *Config) Splash() time.Duration {
	return time.Duration(c.SplashMS) * time.Millisecond
}

// CollectionDir returns the directory of a named collection for the fs
// driver.
func (c *Config) CollectionDir(collection string) string {
	return filepath.Join(c.Storage.Dir, collection)
}
