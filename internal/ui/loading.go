package ui

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
	"github.com/dshills/gamemaker/internal/storage"
)

type loadPhase int

const (
	// phaseQueued draws one frame before the blocking call.
	phaseQueued loadPhase = iota
	phaseFailed
)

// loadingScreen generates a plugin, saves it and starts it.
//
// Generation blocks inside Update; touches are not polled while the
// model is working.
type loadingScreen struct {
	base

	kind        plugin.Kind
	name        string
	description string

	phase    loadPhase
	frames   int
	angle    int
	progress float64
	message  string

	cancel *screen.Button
	back   *screen.Button
}

// Loading creates the screen that generates a plugin of kind named name
// from description.
func (s *Shell) Loading(kind plugin.Kind, name, description string) screen.Screen {
	return &loadingScreen{
		base:        s.newBase(kind.String() + "-loading"),
		kind:        kind,
		name:        name,
		description: description,
		cancel:      screen.NewButton(100, 420, 120, 30, "Cancel", render.Accent, render.ButtonBG),
		back:        screen.NewButton(90, 330, 140, 35, "Back", render.White, render.Primary),
	}
}

func (l *loadingScreen) Enter(context.Context) {
	l.phase = phaseQueued
	l.frames = 0
	l.progress = 0
	l.message = ""
}

func (l *loadingScreen) Update(ctx context.Context) {
	l.angle = (l.angle + 10) % 360
	if l.phase != phaseQueued {
		return
	}
	l.frames++
	l.progress = min(l.progress+0.01, 0.95)
	if l.frames < 2 {
		return
	}
	l.run(ctx)
}

func (l *loadingScreen) run(ctx context.Context) {
	gen := l.shell.gen()
	if gen == nil {
		l.failWith("No generator configured")
		return
	}
	code, err := gen.Generate(ctx, l.kind, l.description)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		l.logger.Error("generation failed: %v", err)
		l.failWith("Generation failed. Check your connection")
		return
	}

	store := l.shell.Store(l.kind)
	key, err := store.Save(ctx, l.name, code, l.description)
	if err != nil {
		l.logger.Error("saving %q failed: %v", l.name, err)
		switch {
		case errors.Is(err, storage.ErrFull):
			l.failWith("Storage full. Delete one first")
		default:
			l.failWith("Could not save")
		}
		return
	}
	l.logger.Info("saved %s %q as %s (%d bytes)", l.kind, l.name, key, len(code))
	l.shell.change(l.shell.Runner(l.kind, key))
}

func (l *loadingScreen) failWith(msg string) {
	l.phase = phaseFailed
	l.message = msg
}

func (l *loadingScreen) Draw() {
	r := l.r
	r.Fill(render.Background)

	r.Rect(0, 0, r.Width(), 40, render.Black, true)
	status, color := "Generating...", render.Secondary
	if l.phase == phaseFailed {
		status, color = "Error!", render.Accent
	}
	r.TextCentered(12, status, color, 1)

	r.RoundedRect(15, 55, 290, 90, 8, render.Black, true)
	r.RoundedRect(15, 55, 290, 90, 8, render.Secondary, false)
	r.Text(25, 63, "Your "+l.kind.String()+":", render.Secondary, 1)
	for i, line := range wrapText(l.description, 38) {
		if i == 4 {
			break
		}
		r.Text(25, 80+i*15, line, render.White, 1)
	}

	if l.phase == phaseFailed {
		r.TextCentered(220, "Generation error", render.Accent, 2)
		r.TextCentered(260, clip(l.message, 44), render.TextSecondary, 1)
		l.back.Draw(r)
		l.flush()
		return
	}

	l.drawSpinner(r, 160, 230)
	r.TextCentered(290, "The model is thinking"+strings.Repeat(".", (l.angle/60)%4), render.Secondary, 1)
	r.ProgressBar(60, 315, 200, 8, l.progress, render.ButtonBG, render.Primary)
	l.cancel.Draw(r)
	l.flush()
}

func (l *loadingScreen) drawSpinner(r *render.Renderer, cx, cy int) {
	r.Circle(cx, cy, 35, render.ButtonBG, false)
	spoke := func(deg, outer, inner int, c render.Color) {
		rad := float64(deg) * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		r.Line(cx+int(float64(outer)*cos), cy+int(float64(outer)*sin),
			cx+int(float64(inner)*cos), cy+int(float64(inner)*sin), c)
	}
	for i := 0; i < 360; i += 30 {
		if a := (i + l.angle) % 360; a < 180 {
			spoke(a, 35, 30, render.Primary)
		}
	}
	for i := 0; i < 360; i += 40 {
		if a := (i - l.angle + 360) % 360; a < 200 {
			spoke(a, 25, 20, render.Secondary)
		}
	}
}

func (l *loadingScreen) HandleTouch(x, y int) {
	if !l.gate.Accept() {
		return
	}
	switch {
	case l.phase == phaseQueued && l.cancel.Contains(x, y):
		l.logger.Warn("generation cancelled")
		l.shell.change(l.shell.Builder(l.kind))
	case l.phase == phaseFailed && l.back.Contains(x, y):
		l.shell.change(l.shell.Builder(l.kind))
	}
}
