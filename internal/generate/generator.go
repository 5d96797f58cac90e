package generate

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/dshills/gamemaker/internal/logging"
	"github.com/dshills/gamemaker/internal/plugin"
)

//go:embed prompts/*.txt
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.txt"))

// Suggestion counts per request.
const (
	GameSuggestions = 10
	AppSuggestions  = 5
)

// Options configures a Generator.
type Options struct {
	// CodeTokens bounds replies to code requests.
	CodeTokens int

	// SuggestTokens bounds replies to suggestion requests.
	SuggestTokens int

	Logger *logging.Logger
}

// DefaultOptions returns the default generator options.
func DefaultOptions() Options {
	return Options{CodeTokens: 8000, SuggestTokens: 100}
}

// Generator produces plugin source and description suggestions.
type Generator struct {
	completer Completer
	opts      Options
	logger    *logging.Logger

	mu    sync.Mutex
	round int
}

// New creates a generator on top of c.
func New(c Completer, opts Options) *Generator {
	def := DefaultOptions()
	if opts.CodeTokens <= 0 {
		opts.CodeTokens = def.CodeTokens
	}
	if opts.SuggestTokens <= 0 {
		opts.SuggestTokens = def.SuggestTokens
	}
	return &Generator{
		completer: c,
		opts:      opts,
		logger:    logging.OrNull(opts.Logger).WithComponent("generate"),
	}
}

type promptData struct {
	Description string
}

func render(name, description string) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, promptData{Description: description}); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Generate asks the model for a plugin of kind matching description and
// returns its Lua source.
func (g *Generator) Generate(ctx context.Context, kind plugin.Kind, description string) (string, error) {
	name := "game.txt"
	if kind == plugin.KindApp {
		name = "app.txt"
	}
	prompt, err := render(name, strings.TrimSpace(description))
	if err != nil {
		return "", err
	}

	g.logger.Info("generating %s for %q", kind, description)
	reply, err := g.completer.Complete(ctx, Request{
		Task:      TaskCode,
		Kind:      kind,
		Prompt:    prompt,
		MaxTokens: g.opts.CodeTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}

	code := ExtractCode(reply)
	if code == "" {
		return "", fmt.Errorf("generate %s: %w", kind, ErrNoCode)
	}
	g.logger.Info("generated %s: %d bytes", kind, len(code))
	return code, nil
}

// Suggest returns words that could continue description. Games get ten
// words; apps get five application types when description is empty and
// five features otherwise. When the model fails the built-in lists are
// used, so only a cancelled ctx produces an error.
func (g *Generator) Suggest(ctx context.Context, kind plugin.Kind, description string) ([]string, error) {
	description = strings.TrimSpace(description)

	var (
		name     string
		sep      string
		want     int
		fallback []string
	)
	switch {
	case kind == plugin.KindGame:
		name, sep, want, fallback = "suggest_game.txt", ",", GameSuggestions, fallbackGameWords
	case description == "":
		name, sep, want, fallback = "suggest_app_types.txt", "|", AppSuggestions, g.nextAppTypes()
	default:
		name, sep, want, fallback = "suggest_app_features.txt", "|", AppSuggestions, featuresFor(description)
	}

	prompt, err := render(name, description)
	if err != nil {
		return nil, err
	}
	reply, err := g.completer.Complete(ctx, Request{
		Task:      TaskSuggest,
		Kind:      kind,
		Prompt:    prompt,
		MaxTokens: g.opts.SuggestTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, ErrOffline) {
			g.logger.Warn("suggestions failed, using fallback: %v", err)
		}
		return slices.Clone(fallback), nil
	}

	words := splitList(reply, sep)
	if len(words) > want {
		words = words[:want]
	}
	return fill(words, fallback, want), nil
}

// nextAppTypes rotates through the fallback pools so repeated requests
// offer different types.
func (g *Generator) nextAppTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	pool := fallbackAppTypePools[g.round%len(fallbackAppTypePools)]
	g.round++
	return pool
}

// fill pads words with fallback entries not already present until it has
// n items.
func fill(words, fallback []string, n int) []string {
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = true
	}
	for _, f := range fallback {
		if len(words) >= n {
			break
		}
		if !seen[strings.ToLower(f)] {
			words = append(words, f)
			seen[strings.ToLower(f)] = true
		}
	}
	return words
}
