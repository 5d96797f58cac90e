// Package config provides the configuration system for gamemaker.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← GAMEMAKER_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← gamemaker.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Flags are applied by the command after Load returns, then Validate is
// called on the merged result.
//
// # Basic Usage
//
//	cfg, err := config.Load("gamemaker.toml")
//	if err != nil {
//	    return err
//	}
//	cfg.Logging.Level = *logLevel
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Environment Variables
//
// Every field can be set from the environment. Names are the section and
// key joined with underscores under the GAMEMAKER_ prefix:
//
//	GAMEMAKER_DISPLAY_FPS=60
//	GAMEMAKER_TOUCH_DEBOUNCE_MS=30
//	GAMEMAKER_TOUCH_CAL_SWAP_XY=true
//	GAMEMAKER_GENERATE_PROVIDER=openai
//
// # Settings
//
// Settings holds the values a user changes on the device itself, such as
// the generation API key. It lives in its own JSON file with explicit
// Load and Save, separate from the read-only Config.
package config
