package ui

import (
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// AppName is the product name shown on the about screen.
const AppName = "Game Maker Console"

var aboutLines = []string{
	"Create games and apps with AI",
	"Plugins are sandboxed Lua",
	"",
	"Display: 320x480 RGB565",
	"Touch: FT6x36",
}

type aboutScreen struct {
	base
	back *screen.Button
}

// About creates the about screen.
func (s *Shell) About() screen.Screen {
	return &aboutScreen{
		base: s.newBase("about"),
		back: screen.NewButton(120, 420, 80, 35, "Back", render.White, render.ButtonBG),
	}
}

func (a *aboutScreen) Draw() {
	r := a.r
	r.Fill(render.Background)
	r.Rect(0, 0, r.Width(), 50, render.Black, true)
	r.Circle(25, 25, 12, render.Secondary, false)
	r.Text(22, 19, "i", render.Secondary, 1)
	r.Text(45, 12, "ABOUT", render.White, 2)

	cx, cy := 160, 110
	r.Circle(cx, cy, 35, render.Primary, true)
	r.Circle(cx, cy, 35, render.Secondary, false)
	r.Triangle(cx-12, cy-18, cx-12, cy+18, cx+15, cy, render.White, false)

	r.TextCentered(160, AppName, render.White, 2)
	r.TextCentered(195, "Version "+a.shell.opts.Version, render.Secondary, 1)
	r.HLine(40, 220, 240, render.ButtonBG)

	y := 235
	for _, line := range aboutLines {
		if line != "" {
			r.TextCentered(y, line, render.TextSecondary, 1)
		}
		y += 18
	}
	r.HLine(40, 345, 240, render.ButtonBG)

	r.TextCentered(360, "Made with", render.TextSecondary, 1)
	hx, hy := 160, 390
	r.Circle(hx-5, hy-2, 5, render.Accent, true)
	r.Circle(hx+5, hy-2, 5, render.Accent, true)
	r.Triangle(hx-10, hy, hx+10, hy, hx, hy+10, render.Accent, true)

	a.back.Draw(r)
	a.flush()
}

func (a *aboutScreen) HandleTouch(x, y int) {
	if !a.gate.Accept() {
		return
	}
	if a.back.Contains(x, y) {
		a.shell.change(a.shell.Menu())
	}
}
