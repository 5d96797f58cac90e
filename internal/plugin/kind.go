package plugin

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two plugin families. They share one runner and
// differ only in naming and overlay labels.
type Kind int

// Plugin kinds.
const (
	// KindGame plugins are interactive games.
	KindGame Kind = iota

	// KindApp plugins are small utilities.
	KindApp
)

// String returns the lower-case kind name used in storage and logs.
func (k Kind) String() string {
	switch k {
	case KindGame:
		return "game"
	case KindApp:
		return "app"
	default:
		return "unknown"
	}
}

// ClassName is the global table a plugin of this kind defines for the
// object shape.
func (k Kind) ClassName() string {
	if k == KindApp {
		return "App"
	}
	return "Game"
}

// InstanceName is the global holding a pre-built instance.
func (k Kind) InstanceName() string {
	if k == KindApp {
		return "app"
	}
	return "game"
}

// Collection is the storage collection holding plugins of this kind.
func (k Kind) Collection() string {
	if k == KindApp {
		return "apps"
	}
	return "games"
}

// OverlayLabel is the label of the host-owned control drawn over a
// running plugin.
func (k Kind) OverlayLabel() string {
	if k == KindApp {
		return "X"
	}
	return "||"
}

// PausedTitle is the heading shown while the plugin is paused.
func (k Kind) PausedTitle() string {
	if k == KindApp {
		return "MENU"
	}
	return "PAUSED"
}

// ParseKind parses "game" or "app", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "game", "games":
		return KindGame, nil
	case "app", "apps":
		return KindApp, nil
	default:
		return 0, fmt.Errorf("plugin: unknown kind %q", s)
	}
}
