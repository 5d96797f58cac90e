package ui

import (
	"context"
	"math"
	"time"

	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// DefaultSplash is the splash duration used when none is configured.
const DefaultSplash = 3 * time.Second

// splashScreen shows the title and a progress bar, then opens the menu.
type splashScreen struct {
	base

	duration time.Duration
	start    time.Time
	progress float64
	angle    int
}

// Splash creates the boot screen.
func (s *Shell) Splash() screen.Screen {
	d := s.opts.Splash
	if d <= 0 {
		d = DefaultSplash
	}
	return &splashScreen{base: s.newBase("splash"), duration: d}
}

func (sc *splashScreen) Enter(context.Context) {
	sc.start = sc.shell.opts.Clock.Now()
	sc.progress = 0
}

func (sc *splashScreen) Update(context.Context) {
	elapsed := sc.shell.opts.Clock.Now().Sub(sc.start)
	sc.progress = min(float64(elapsed)/float64(sc.duration), 1)
	sc.angle = (sc.angle + 5) % 360
	if elapsed >= sc.duration {
		sc.logger.Info("splash done after %d ms", elapsed.Milliseconds())
		sc.shell.change(sc.shell.Menu())
	}
}

func (sc *splashScreen) Draw() {
	r := sc.r
	r.Fill(render.Background)

	cx, cy := 160, 140
	r.Circle(cx, cy, 50, render.Primary, false)
	r.Circle(cx, cy, 40, render.Secondary, false)
	r.Circle(cx, cy, 30, render.Accent, false)

	r.TextCentered(195, "GAME", render.Primary, 3)
	r.TextCentered(235, "MAKER", render.Secondary, 2)

	for _, p := range [][2]int{{50, 80}, {260, 100}, {70, 290}} {
		drawStar(r, p[0], p[1], 6, sc.angle, render.Warning)
	}

	r.ProgressBar(60, 330, 200, 12, sc.progress, render.ButtonBG, render.Primary)
	r.TextCentered(370, "Lua plugins made on demand", render.TextSecondary, 1)
	r.TextCentered(390, sc.shell.opts.Version, render.TextSecondary, 1)
	sc.flush()
}

// drawStar outlines a five-pointed star rotated by spin degrees.
func drawStar(r *render.Renderer, cx, cy, size, spin int, c render.Color) {
	var pts [10][2]int
	for i := 0; i < 5; i++ {
		outer := float64(i*72-90+spin) * math.Pi / 180
		inner := outer + 36*math.Pi/180
		pts[2*i] = [2]int{cx + int(float64(size)*math.Cos(outer)), cy + int(float64(size)*math.Sin(outer))}
		pts[2*i+1] = [2]int{cx + int(float64(size)*0.4*math.Cos(inner)), cy + int(float64(size)*0.4*math.Sin(inner))}
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		r.Line(a[0], a[1], b[0], b[1], c)
	}
}
