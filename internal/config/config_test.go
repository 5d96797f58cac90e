package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Debounce() != 20*time.Millisecond {
		t.Errorf("Debounce() = %v, want 20ms", cfg.Debounce())
	}
	if cfg.CallBudget() != 2*time.Second {
		t.Errorf("CallBudget() = %v, want 2s", cfg.CallBudget())
	}
	if cfg.Splash() != 3*time.Second {
		t.Errorf("Splash() = %v, want 3s", cfg.Splash())
	}
	if got := cfg.CollectionDir("games"); got != filepath.Join("data", "games") {
		t.Errorf("CollectionDir() = %q", got)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.toml"), map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.Display.FPS != 30 || cfg.Storage.Driver != DriverFS {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "gamemaker.toml", `
splash_ms = 500

[display]
fps = 45

[touch]
debounce_ms = 30

[touch.calibration]
ax = 1.0
bx = 0.0
swap_xy = true

[storage]
driver = "sqlite"
sqlite_path = "/tmp/gm.db"

[generate]
provider = "openai"
model = "gpt-4o"
`)
	cfg, err := LoadWithEnv(path, map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}

	if cfg.SplashMS != 500 {
		t.Errorf("SplashMS = %d, want 500", cfg.SplashMS)
	}
	if cfg.Display.FPS != 45 {
		t.Errorf("FPS = %d, want 45", cfg.Display.FPS)
	}
	if cfg.Display.Width != 320 || cfg.Display.Height != 480 {
		t.Errorf("untouched size changed: %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Touch.DebounceMS != 30 {
		t.Errorf("DebounceMS = %d, want 30", cfg.Touch.DebounceMS)
	}
	cal := cfg.Touch.Calibration
	if cal.AX != 1 || cal.BX != 0 || !cal.SwapXY {
		t.Errorf("calibration = %+v", cal)
	}
	if cal.AY != 1 {
		t.Errorf("AY = %v, want default 1", cal.AY)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.SQLitePath != "/tmp/gm.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Generate.Provider != "openai" || cfg.Generate.Model != "gpt-4o" {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[display\nfps = 1\n", ""},
		{"unknown key", "[display]\nbogus = 1\n", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.toml", tt.content)
			_, err := LoadWithEnv(path, map[string]string{})
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not a *ParseError: %v", err, err)
			}
			if perr.Path != path {
				t.Errorf("Path = %q, want %q", perr.Path, path)
			}
			if perr.Line <= 0 {
				t.Errorf("Line = %d, want a position", perr.Line)
			}
			if tt.want != "" && !strings.Contains(perr.Message, tt.want) {
				t.Errorf("Message = %q, want it to mention %q", perr.Message, tt.want)
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "gamemaker.toml", "[display]\nfps = 45\n\n[touch]\ndebounce_ms = 30\n")
	environ := map[string]string{
		"GAMEMAKER_DISPLAY_FPS":        "60",
		"GAMEMAKER_TOUCH_CAL_SWAP_XY":  "true",
		"GAMEMAKER_TOUCH_CAL_BX":       "2.5",
		"GAMEMAKER_STORAGE_WATCH":      "true",
		"GAMEMAKER_GENERATE_API_KEY":   "sk-test",
		"GAMEMAKER_LOG_LEVEL":          "debug",
		"GAMEMAKER_PLUGIN_STATS_EVERY": "-1",
		"GAMEMAKER_SPLASH_MS":          "0",
		"UNRELATED":                    "ignored",
	}

	cfg, err := LoadWithEnv(path, environ)
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}

	if cfg.Display.FPS != 60 {
		t.Errorf("FPS = %d, want env value 60", cfg.Display.FPS)
	}
	if cfg.Touch.DebounceMS != 30 {
		t.Errorf("DebounceMS = %d, want file value 30", cfg.Touch.DebounceMS)
	}
	if !cfg.Touch.Calibration.SwapXY || cfg.Touch.Calibration.BX != 2.5 {
		t.Errorf("calibration = %+v", cfg.Touch.Calibration)
	}
	if !cfg.Storage.Watch {
		t.Error("Storage.Watch not set from env")
	}
	if cfg.Generate.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.Generate.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Plugin.StatsEvery != -1 {
		t.Errorf("StatsEvery = %d", cfg.Plugin.StatsEvery)
	}
	if cfg.SplashMS != 0 {
		t.Errorf("SplashMS = %d", cfg.SplashMS)
	}
}

func TestEnvBadValue(t *testing.T) {
	_, err := LoadWithEnv("", map[string]string{"GAMEMAKER_DISPLAY_FPS": "fast"})
	if err == nil {
		t.Fatal("expected error for non-numeric fps")
	}
	if !strings.Contains(err.Error(), "parse env") {
		t.Errorf("error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		paths  []string
	}{
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }, []string{"display.fps"}},
		{"negative size", func(c *Config) { c.Display.Width = -1 }, []string{"display"}},
		{"negative debounce", func(c *Config) { c.Touch.DebounceMS = -5 }, []string{"touch.debounce_ms"}},
		{"collapsed axis", func(c *Config) { c.Touch.Calibration.AX = 0 }, []string{"touch.calibration"}},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, []string{"storage.driver"}},
		{"sqlite without path", func(c *Config) {
			c.Storage.Driver = DriverSQLite
			c.Storage.SQLitePath = ""
		}, []string{"storage.sqlite_path"}},
		{"unknown provider", func(c *Config) { c.Generate.Provider = "parrot" }, []string{"generate.provider"}},
		{"several", func(c *Config) {
			c.Display.FPS = 1000
			c.Logging.Level = "loud"
			c.Storage.Limit = 0
		}, []string{"display.fps", "logging.level", "storage.limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error does not match ErrValidationFailed: %v", err)
			}
			for _, p := range tt.paths {
				if !strings.Contains(err.Error(), p+":") {
					t.Errorf("error %q does not mention %s", err, p)
				}
			}
		})
	}
}

func TestParseErrorFormat(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{&ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
