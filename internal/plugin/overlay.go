package plugin

import (
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// Host-owned control layout on the 320x480 portrait panel.
var (
	overlayRect = rect{260, 5, 50, 30}
	backRect    = rect{90, 320, 140, 35}
	resumeRect  = rect{50, 280, 100, 35}
	exitRect    = rect{170, 280, 100, 35}
)

const (
	titleY      = 200
	messageY    = 250
	scanlineGap = 4
	dimColor    = render.ButtonBG
)

type rect struct{ x, y, w, h int }

// controls holds the host-owned buttons drawn over or instead of the
// plugin.
type controls struct {
	overlay *screen.Button
	back    *screen.Button
	resume  *screen.Button
	exit    *screen.Button
}

func newControls(kind Kind) controls {
	btn := func(r rect, label string, bg render.Color) *screen.Button {
		return screen.NewButton(r.x, r.y, r.w, r.h, label, render.White, bg)
	}
	return controls{
		overlay: btn(overlayRect, kind.OverlayLabel(), render.Accent),
		back:    btn(backRect, "Back", render.Primary),
		resume:  btn(resumeRect, "Resume", render.Success),
		exit:    btn(exitRect, "Exit", render.Accent),
	}
}

func drawError(r *render.Renderer, c controls, message string) {
	r.Fill(render.Background)
	r.TextCentered(titleY, "ERROR", render.Accent, 3)
	r.TextCentered(messageY, truncateRunes(message, ShownMessageRunes), render.TextSecondary, 1)
	c.back.Draw(r)
}

// drawPaused darkens the frozen frame with every fourth scanline.
func drawPaused(r *render.Renderer, c controls, title string) {
	for y := 0; y < r.Height(); y += scanlineGap {
		r.HLine(0, y, r.Width(), dimColor)
	}
	r.TextCentered(titleY, title, render.Primary, 3)
	c.resume.Draw(r)
	c.exit.Draw(r)
}

func drawLoading(r *render.Renderer) {
	r.Fill(render.Background)
	r.TextCentered(titleY+20, "Loading...", render.Text, 2)
}

func drawNoInterface(r *render.Renderer) {
	r.Fill(render.Background)
	r.TextCentered(titleY+20, "no interface", render.TextSecondary, 2)
}
