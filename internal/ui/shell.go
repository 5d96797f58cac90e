package ui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dshills/gamemaker/internal/config"
	"github.com/dshills/gamemaker/internal/input"
	"github.com/dshills/gamemaker/internal/logging"
	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
	"github.com/dshills/gamemaker/internal/storage"
)

// Generator produces plugin source and description suggestions.
type Generator interface {
	Generate(ctx context.Context, kind plugin.Kind, description string) (string, error)
	Suggest(ctx context.Context, kind plugin.Kind, description string) ([]string, error)
}

// Options configures a Shell.
type Options struct {
	Renderer *render.Renderer

	// Touch is the reader handed to plugins. It must not consume host
	// input; pass Host.Touch.
	Touch input.Reader

	Screens screen.Changer
	Clock   screen.Clock

	// Games and Apps are the two plugin collections.
	Games storage.Store
	Apps  storage.Store

	Generator Generator

	// Settings are edited by the settings screen. Nil hides the screen's
	// save button.
	Settings *config.Settings

	// Reconfigure is called after settings are saved so the caller can
	// rebuild the generator.
	Reconfigure func(ctx context.Context) error

	Debounce   time.Duration
	CallBudget time.Duration
	Splash     time.Duration
	Version    string

	Logger *logging.Logger
}

// Shell builds the built-in screens and wires them to each other.
type Shell struct {
	opts   Options
	logger *logging.Logger

	mu        sync.Mutex
	generator Generator
}

// New creates a shell.
func New(opts Options) *Shell {
	if opts.Touch == nil {
		opts.Touch = input.None
	}
	if opts.Clock == nil {
		opts.Clock = screen.SystemClock{}
	}
	return &Shell{
		opts:      opts,
		logger:    logging.OrNull(opts.Logger).WithComponent("ui"),
		generator: opts.Generator,
	}
}

// SetGenerator replaces the generator used by screens created afterwards.
func (s *Shell) SetGenerator(g Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generator = g
}

func (s *Shell) gen() Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generator
}

// Store returns the collection holding plugins of kind.
func (s *Shell) Store(kind plugin.Kind) storage.Store {
	if kind == plugin.KindApp {
		return s.opts.Apps
	}
	return s.opts.Games
}

func (s *Shell) change(next screen.Screen) {
	s.opts.Screens.ChangeScreen(next)
}

// Runner creates the runner screen for the stored plugin key. Leaving the
// runner returns to the explorer of the same kind.
func (s *Shell) Runner(kind plugin.Kind, key string) *plugin.Runner {
	opts := plugin.Options{
		Source:     s.Store(kind),
		Renderer:   s.opts.Renderer,
		Touch:      s.opts.Touch,
		Screens:    s.opts.Screens,
		Back:       func() screen.Screen { return s.Explorer(kind) },
		Clock:      s.opts.Clock,
		Debounce:   s.opts.Debounce,
		CallBudget: s.opts.CallBudget,
		Logger:     s.opts.Logger,
	}
	if kind == plugin.KindApp {
		return plugin.NewApp(key, opts)
	}
	return plugin.NewGame(key, opts)
}

// base carries what every built-in screen needs.
type base struct {
	screen.Base

	name   string
	shell  *Shell
	r      *render.Renderer
	gate   *screen.DebounceGate
	logger *logging.Logger
}

func (s *Shell) newBase(name string) base {
	return base{
		name:   name,
		shell:  s,
		r:      s.opts.Renderer,
		gate:   screen.NewDebounceGate(s.opts.Debounce, s.opts.Clock),
		logger: s.logger.WithField("screen", name),
	}
}

// Name implements screen.Screen.
func (b *base) Name() string { return b.name }

func (b *base) flush() {
	if err := b.r.Flush(); err != nil {
		b.logger.Warn("flush failed: %v", err)
	}
}

// wrapText splits text into lines of at most width runes, breaking on
// spaces. Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
