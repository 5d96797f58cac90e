package generate

import (
	"context"
	_ "embed"

	"github.com/dshills/gamemaker/internal/plugin"
)

var (
	//go:embed prompts/demo_game.lua
	demoGame string

	//go:embed prompts/demo_app.lua
	demoApp string
)

// Static is an offline Completer. Code requests are answered with a demo
// plugin of the requested kind; suggestion requests fail with ErrOffline
// so callers fall back to their built-in lists.
type Static struct{}

// NewStatic creates an offline completer.
func NewStatic() *Static { return &Static{} }

// Complete implements Completer.
func (*Static) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Task != TaskCode {
		return "", ErrOffline
	}
	src := demoGame
	if req.Kind == plugin.KindApp {
		src = demoApp
	}
	return "```lua\n" + src + "\n```", nil
}

// DemoSource returns the built-in demo plugin of kind.
func DemoSource(kind plugin.Kind) string {
	if kind == plugin.KindApp {
		return demoApp
	}
	return demoGame
}
