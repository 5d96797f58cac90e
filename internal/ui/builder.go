package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// GamePrompt opens every game description.
const GamePrompt = "I want to make a game of"

// Builder step limits.
const (
	gameSteps = 3
	appSteps  = 5
)

// builderScreen assembles a plugin description from suggested words.
//
// Games take exactly three words: pick one, press Next, and on the last
// step Generate. Apps take a type and up to four features; tapping a
// suggestion adds it at once and Generate is available after the type.
type builderScreen struct {
	base

	kind        plugin.Kind
	maxSteps    int
	step        int
	parts       []string
	suggestions []string
	selected    int
	pending     bool

	options  []*screen.Button
	back     *screen.Button
	next     *screen.Button
	others   *screen.Button
	generate *screen.Button
}

// Builder creates the description builder for kind.
func (s *Shell) Builder(kind plugin.Kind) screen.Screen {
	b := &builderScreen{
		base:     s.newBase(kind.String() + "-builder"),
		kind:     kind,
		selected: -1,
	}
	if kind == plugin.KindApp {
		b.maxSteps = appSteps
		for i := 0; i < 5; i++ {
			b.options = append(b.options, screen.NewButton(15, 165+i*50, 290, 45, "", render.Secondary, render.ButtonBG))
		}
		b.back = screen.NewButton(10, 430, 70, 30, "Back", render.TextSecondary, render.ButtonBG)
		b.others = screen.NewButton(85, 430, 75, 30, "Others", render.Secondary, render.ButtonBG)
		b.generate = screen.NewButton(165, 430, 145, 30, "GENERATE APP", render.White, render.Success)
		return b
	}
	b.maxSteps = gameSteps
	for row := 0; row < 5; row++ {
		for col := 0; col < 2; col++ {
			b.options = append(b.options, screen.NewButton(20+col*150, 170+row*45, 130, 35, "", render.Secondary, render.ButtonBG))
		}
	}
	b.back = screen.NewButton(20, 430, 70, 30, "Back", render.TextSecondary, render.ButtonBG)
	b.next = screen.NewButton(230, 430, 70, 30, "Next", render.White, render.Success)
	b.generate = screen.NewButton(110, 430, 190, 30, "GENERATE", render.White, render.Success)
	return b
}

func (b *builderScreen) Enter(ctx context.Context) {
	b.step = 0
	b.parts = nil
	b.selected = -1
	b.load(ctx)
}

func (b *builderScreen) Update(ctx context.Context) {
	if b.pending {
		b.load(ctx)
	}
}

// Description returns the text sent to the generator.
func (b *builderScreen) Description() string {
	if b.kind == plugin.KindGame {
		return strings.TrimSpace(GamePrompt + " " + strings.Join(b.parts, " "))
	}
	switch len(b.parts) {
	case 0:
		return "A simple application"
	case 1:
		return "An application of type " + b.parts[0]
	default:
		return fmt.Sprintf("An application of type %s with the following features: %s",
			b.parts[0], strings.Join(b.parts[1:], ", "))
	}
}

// pluginName is the display name the generated plugin is saved under.
func (b *builderScreen) pluginName() string {
	if len(b.parts) == 0 {
		return "My " + b.kind.ClassName()
	}
	if b.kind == plugin.KindApp {
		return b.parts[0]
	}
	return strings.Join(b.parts, " ")
}

func (b *builderScreen) suggestContext() string {
	if b.kind == plugin.KindGame {
		return b.Description()
	}
	return strings.Join(b.parts, ", ")
}

func (b *builderScreen) load(ctx context.Context) {
	b.pending = false
	b.selected = -1
	b.suggestions = nil

	gen := b.shell.gen()
	if gen != nil {
		words, err := gen.Suggest(ctx, b.kind, b.suggestContext())
		if err != nil {
			b.logger.Warn("suggestions failed: %v", err)
		}
		b.suggestions = words
	}
	b.logger.Debug("step %d: %d suggestions", b.step, len(b.suggestions))

	for i, opt := range b.options {
		if i < len(b.suggestions) {
			opt.Label = clip(b.suggestions[i], 38)
			opt.Disabled = false
		} else {
			opt.Label = ""
			opt.Disabled = true
		}
	}
}

func (b *builderScreen) Draw() {
	r := b.r
	r.Fill(render.Background)

	r.Rect(0, 0, r.Width(), 40, render.Black, true)
	var title string
	var progress float64
	if b.kind == plugin.KindGame {
		title = fmt.Sprintf("Step %d of %d", b.step+1, b.maxSteps)
		progress = float64(b.step+1) / float64(b.maxSteps)
	} else {
		title = "Choose app type"
		if b.step > 0 {
			title = fmt.Sprintf("Step %d/%d - Features", b.step, b.maxSteps-1)
		}
		progress = float64(b.step) / float64(b.maxSteps-1)
	}
	r.TextCentered(10, title, render.Secondary, 1)
	r.ProgressBar(40, 28, 240, 6, progress, render.ButtonBG, render.Primary)

	b.drawDescription(r)

	for i, opt := range b.options {
		if opt.Disabled {
			continue
		}
		opt.Color, opt.Background = render.Secondary, render.ButtonBG
		if i == b.selected {
			opt.Color, opt.Background = render.White, render.Primary
		}
		opt.Draw(r)
	}
	if len(b.suggestions) == 0 {
		r.TextCentered(280, "Loading...", render.Primary, 2)
	}

	b.back.Draw(r)
	if b.kind == plugin.KindGame {
		if b.step < b.maxSteps-1 {
			b.next.Disabled = b.selected < 0
			b.next.Draw(r)
		} else {
			b.generate.Disabled = b.selected < 0
			b.generate.Draw(r)
		}
	} else {
		b.others.Draw(r)
		if len(b.parts) > 0 {
			b.generate.Draw(r)
		}
	}
	b.flush()
}

func (b *builderScreen) drawDescription(r *render.Renderer) {
	if b.kind == plugin.KindGame {
		r.Text(20, 52, GamePrompt+"...", render.White, 1)
		r.RoundedRect(20, 75, 280, 40, 6, render.ButtonBG, true)
		r.RoundedRect(20, 75, 280, 40, 6, render.Primary, false)
		text := "(choose)"
		if len(b.parts) > 0 {
			text = strings.Join(b.parts, " ")
		}
		r.Text(30, 88, clip(text, 37), render.Primary, 1)
		r.Text(20, 140, "Pick one:", render.TextSecondary, 1)
		return
	}

	r.Text(15, 48, "Your application:", render.White, 1)
	r.RoundedRect(15, 68, 290, 80, 6, render.ButtonBG, true)
	r.RoundedRect(15, 68, 290, 80, 6, render.Primary, false)
	text := "Choose the application type:"
	if len(b.parts) == 1 {
		text = "App: " + b.parts[0]
	} else if len(b.parts) > 1 {
		text = "App: " + b.parts[0] + " - " + strings.Join(b.parts[1:], ", ")
	}
	for i, line := range wrapText(text, 38) {
		if i == 4 {
			break
		}
		r.Text(25, 76+i*16, line, render.Primary, 1)
	}
	label := "Add a feature:"
	if b.step == 0 {
		label = "Select the type:"
	}
	r.Text(15, 150, label, render.TextSecondary, 1)
}

func (b *builderScreen) HandleTouch(x, y int) {
	if !b.gate.Accept() || b.pending {
		return
	}
	if b.kind == plugin.KindApp {
		b.touchApp(x, y)
		return
	}
	b.touchGame(x, y)
}

func (b *builderScreen) touchGame(x, y int) {
	for i, opt := range b.options {
		if opt.Contains(x, y) {
			b.selected = i
			b.logger.Debug("selected %q", b.suggestions[i])
			return
		}
	}

	switch {
	case b.back.Contains(x, y):
		if b.step == 0 {
			b.shell.change(b.shell.Menu())
			return
		}
		b.step--
		b.parts = b.parts[:len(b.parts)-1]
		b.pending = true

	case b.selected >= 0 && b.step < b.maxSteps-1 && b.next.Contains(x, y):
		b.parts = append(b.parts, b.suggestions[b.selected])
		b.step++
		b.logger.Info("step %d: %v", b.step+1, b.parts)
		b.pending = true

	case b.selected >= 0 && b.step == b.maxSteps-1 && b.generate.Contains(x, y):
		b.parts = append(b.parts, b.suggestions[b.selected])
		b.startGeneration()
	}
}

func (b *builderScreen) touchApp(x, y int) {
	for i, opt := range b.options {
		if opt.Contains(x, y) {
			b.parts = append(b.parts, b.suggestions[i])
			b.logger.Info("added %q", b.suggestions[i])
			if b.step < b.maxSteps-1 {
				b.step++
				b.pending = true
			} else {
				opt.Disabled = true
			}
			return
		}
	}

	switch {
	case b.back.Contains(x, y):
		if len(b.parts) == 0 {
			b.shell.change(b.shell.Menu())
			return
		}
		b.parts = b.parts[:len(b.parts)-1]
		if b.step > 0 {
			b.step--
		}
		b.pending = true

	case b.others.Contains(x, y):
		b.pending = true

	case len(b.parts) > 0 && b.generate.Contains(x, y):
		b.startGeneration()
	}
}

func (b *builderScreen) startGeneration() {
	desc := b.Description()
	b.logger.Info("generating %s from %q", b.kind, desc)
	b.shell.change(b.shell.Loading(b.kind, b.pluginName(), desc))
}
