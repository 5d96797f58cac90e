package render

import (
	"errors"
	"math"
	"testing"
	"time"
)

type countingDisplay struct {
	frames int
	last   []uint16
	err    error
}

func (d *countingDisplay) Present(pix []uint16, width, height int) error {
	if d.err != nil {
		return d.err
	}
	d.frames++
	d.last = append(d.last[:0], pix...)
	return nil
}

func count(r *Renderer, c Color) int {
	n := 0
	for _, v := range r.Pixels() {
		if Color(v) == c {
			n++
		}
	}
	return n
}

func TestNewRenderer(t *testing.T) {
	r := New(320, 480, nil)
	if r.Width() != 320 || r.Height() != 480 {
		t.Errorf("size = %dx%d", r.Width(), r.Height())
	}
	if len(r.Pixels()) != 320*480 {
		t.Errorf("framebuffer len = %d", len(r.Pixels()))
	}
	if err := r.Flush(); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("Flush without display = %v, want ErrNoDisplay", err)
	}
}

func TestFlush(t *testing.T) {
	d := &countingDisplay{}
	r := New(4, 4, d)
	r.Fill(Primary)
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	if d.frames != 1 || r.Flushes() != 1 {
		t.Errorf("frames = %d flushes = %d, want 1", d.frames, r.Flushes())
	}
	if Color(d.last[5]) != Primary {
		t.Errorf("presented pixel = %#04x", d.last[5])
	}

	d.err = errors.New("panel gone")
	if err := r.Flush(); err == nil {
		t.Error("expected present error")
	}
	if r.Flushes() != 1 {
		t.Errorf("failed flush counted")
	}
}

func TestClipping(t *testing.T) {
	r := New(10, 10, nil)

	// None of these may panic.
	r.Pixel(-1, 0, White)
	r.Pixel(10, 10, White)
	r.Rect(-5, -5, 3, 3, White, true)
	r.Rect(8, 8, 10, 10, White, true)
	r.Line(-20, -20, 30, 30, White)
	r.Circle(0, 0, 40, White, true)
	r.Text(-100, 5, "offscreen", White, 3)
	r.Triangle(-50, -50, 60, 0, 0, 60, White, true)
	r.HLine(-3, 2, 100, White)
	r.VLine(4, -3, 100, White)

	r.Fill(Black)
	r.Rect(8, 8, 10, 10, White, true)
	if got := count(r, White); got != 4 {
		t.Errorf("clipped rect painted %d pixels, want 4", got)
	}
}

// finishes fails the test when draw does not return within a second.
func finishes(t *testing.T, draw func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		draw()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("draw did not return")
	}
}

func TestExtremeCoordinatesAreBounded(t *testing.T) {
	const huge = 1 << 40
	tests := []struct {
		name string
		draw func(r *Renderer)
	}{
		{"line far right", func(r *Renderer) { r.Line(0, 0, huge, 0, White) }},
		{"line min to max", func(r *Renderer) { r.Line(math.MinInt, math.MinInt, math.MaxInt, math.MaxInt, White) }},
		{"line off screen", func(r *Renderer) { r.Line(-huge, -huge, -huge, huge, White) }},
		{"circle huge radius", func(r *Renderer) { r.Circle(160, 240, 1<<32, White, false) }},
		{"circle huge radius filled", func(r *Renderer) { r.Circle(160, 240, 1<<32, White, true) }},
		{"circle far away", func(r *Renderer) { r.Circle(-huge, huge, huge/2, White, true) }},
		{"ellipse max radius", func(r *Renderer) { r.Ellipse(0, 0, math.MaxInt, math.MaxInt, White, false, QuadAll) }},
		{"rounded rect huge", func(r *Renderer) { r.RoundedRect(-huge, -huge, 2*huge, 2*huge, huge, White, false) }},
		{"triangle huge", func(r *Renderer) { r.Triangle(-huge, 0, huge, 10, 0, huge, White, false) }},
		{"text huge scale", func(r *Renderer) { r.Text(0, 0, "wide wide wide", White, huge) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(320, 480, nil)
			finishes(t, func() { tt.draw(r) })
		})
	}
}

func TestClippedLineKeepsVisibleSpan(t *testing.T) {
	r := New(10, 10, nil)
	r.Line(-1<<40, 5, 1<<40, 5, White)
	if got := count(r, White); got != 10 {
		t.Errorf("horizontal pixels = %d, want 10", got)
	}
	for x := 0; x < 10; x++ {
		if r.At(x, 5) != White {
			t.Errorf("pixel (%d,5) missing", x)
		}
	}

	r.Fill(Black)
	r.Line(-20, -20, 30, 30, White)
	for i := 0; i < 10; i++ {
		if r.At(i, i) != White {
			t.Errorf("diagonal pixel %d missing", i)
		}
	}
	if got := count(r, White); got != 10 {
		t.Errorf("diagonal pixels = %d, want 10", got)
	}

	r.Fill(Black)
	r.Line(-5, 20, 20, 20, White)
	if got := count(r, White); got != 0 {
		t.Errorf("line below the screen painted %d pixels", got)
	}
}

func TestHugeFilledCircleCoversScreen(t *testing.T) {
	r := New(32, 48, nil)
	r.Circle(16, 24, 1<<32, White, true)
	if got := count(r, White); got != 32*48 {
		t.Errorf("filled pixels = %d, want %d", got, 32*48)
	}

	r.Fill(Black)
	r.Circle(16, 24, 1<<32, White, false)
	if got := count(r, White); got != 0 {
		t.Errorf("outline beyond the screen painted %d pixels", got)
	}
}

func TestRect(t *testing.T) {
	r := New(10, 10, nil)
	r.Rect(1, 1, 4, 3, White, false)
	if got := count(r, White); got != 10 {
		t.Errorf("outline pixels = %d, want 10", got)
	}
	if r.At(2, 2) != Black {
		t.Error("outline interior painted")
	}

	r.Fill(Black)
	r.Rect(1, 1, 4, 3, White, true)
	if got := count(r, White); got != 12 {
		t.Errorf("filled pixels = %d, want 12", got)
	}

	r.Fill(Black)
	r.Rect(1, 1, 0, 3, White, true)
	if got := count(r, White); got != 0 {
		t.Errorf("zero width painted %d", got)
	}
}

func TestLine(t *testing.T) {
	r := New(10, 10, nil)
	r.Line(0, 0, 9, 9, White)
	for i := 0; i < 10; i++ {
		if r.At(i, i) != White {
			t.Errorf("diagonal pixel %d missing", i)
		}
	}
	if got := count(r, White); got != 10 {
		t.Errorf("diagonal pixels = %d, want 10", got)
	}

	r.Fill(Black)
	r.Line(7, 3, 2, 3, White)
	if got := count(r, White); got != 6 {
		t.Errorf("reversed horizontal pixels = %d, want 6", got)
	}
}

func TestCircle(t *testing.T) {
	r := New(21, 21, nil)
	r.Circle(10, 10, 5, White, false)
	for _, p := range [][2]int{{15, 10}, {5, 10}, {10, 5}, {10, 15}} {
		if r.At(p[0], p[1]) != White {
			t.Errorf("outline missing extreme point %v", p)
		}
	}
	if r.At(10, 10) != Black {
		t.Error("outline circle painted its center")
	}

	r.Fill(Black)
	r.Circle(10, 10, 5, White, true)
	if r.At(10, 10) != White || r.At(12, 12) != White {
		t.Error("filled circle interior missing")
	}
	if r.At(15, 15) != Black {
		t.Error("filled circle painted corner of bounding box")
	}

	r.Fill(Black)
	r.Circle(3, 3, 0, White, false)
	if got := count(r, White); got != 1 {
		t.Errorf("zero radius pixels = %d, want 1", got)
	}
}

func TestEllipseQuadrants(t *testing.T) {
	r := New(21, 21, nil)
	r.Ellipse(10, 10, 6, 4, White, true, QuadTopRight)
	if r.At(13, 8) != White {
		t.Error("top-right quadrant missing")
	}
	if r.At(7, 8) != Black || r.At(7, 12) != Black || r.At(13, 12) != Black {
		t.Error("masked quadrants painted")
	}
}

func TestRoundedRect(t *testing.T) {
	r := New(20, 20, nil)
	r.RoundedRect(0, 0, 20, 10, 4, White, true)
	if r.At(0, 0) != Black {
		t.Error("rounded corner painted")
	}
	if r.At(10, 5) != White || r.At(0, 5) != White || r.At(10, 0) != White {
		t.Error("rounded rect body missing")
	}

	r.Fill(Black)
	r.RoundedRect(2, 2, 10, 8, 3, White, false)
	if r.At(6, 5) != Black {
		t.Error("outline interior painted")
	}
	if r.At(6, 2) != White || r.At(2, 5) != White {
		t.Error("outline edge missing")
	}
}

func TestTriangle(t *testing.T) {
	r := New(20, 20, nil)
	r.Triangle(0, 0, 10, 0, 0, 10, White, true)
	if r.At(2, 2) != White {
		t.Error("filled triangle interior missing")
	}
	if r.At(9, 9) != Black {
		t.Error("filled triangle painted outside hypotenuse")
	}

	r.Fill(Black)
	r.Triangle(0, 5, 6, 5, 3, 5, White, true)
	if got := count(r, White); got != 7 {
		t.Errorf("degenerate triangle pixels = %d, want 7", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		wantFG   bool
		fgAt     int
	}{
		{"empty", 0, false, 0},
		{"negative", -1, false, 0},
		{"nan", math.NaN(), false, 0},
		{"half", 0.5, true, 15},
		{"over", 3, true, 38},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(40, 10, nil)
			r.ProgressBar(0, 0, 40, 10, tt.progress, ButtonBG, Success)
			got := count(r, Success) > 0
			if got != tt.wantFG {
				t.Fatalf("foreground painted = %v, want %v", got, tt.wantFG)
			}
			if tt.wantFG && r.At(tt.fgAt, 5) != Success {
				t.Errorf("pixel %d not filled", tt.fgAt)
			}
			if r.At(20, 5) == Black {
				t.Error("background missing")
			}
		})
	}
}

func TestTextWidth(t *testing.T) {
	tests := []struct {
		s     string
		scale int
		want  int
	}{
		{"", 1, 0},
		{"abc", 1, 21},
		{"abc", 2, 42},
		{"abc", 0, 21},
		{"é", 1, 7},
		{"🇪🇸", 1, 7},
	}
	for _, tt := range tests {
		if got := TextWidth(tt.s, tt.scale); got != tt.want {
			t.Errorf("TextWidth(%q, %d) = %d, want %d", tt.s, tt.scale, got, tt.want)
		}
	}
}

func TestTextDraws(t *testing.T) {
	r := New(60, 30, nil)
	r.Text(0, 0, "H", White, 1)
	n := count(r, White)
	if n == 0 {
		t.Fatal("glyph drew nothing")
	}
	for y := 0; y < 30; y++ {
		for x := GlyphWidth; x < 60; x++ {
			if r.At(x, y) == White {
				t.Fatalf("glyph escaped its cell at %d,%d", x, y)
			}
		}
	}

	r.Fill(Black)
	r.Text(0, 0, "H", White, 2)
	if got := count(r, White); got != 4*n {
		t.Errorf("scale 2 pixels = %d, want %d", got, 4*n)
	}

	r.Fill(Black)
	r.Text(0, 0, "   ", White, 1)
	if got := count(r, White); got != 0 {
		t.Errorf("spaces drew %d pixels", got)
	}
}

func TestTextAlignment(t *testing.T) {
	r := New(70, 20, nil)
	r.TextCentered(0, "I", White, 1)
	minX, maxX := 70, -1
	for y := 0; y < 20; y++ {
		for x := 0; x < 70; x++ {
			if r.At(x, y) == White {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	// cell occupies [31, 38)
	if minX < 31 || maxX >= 38 {
		t.Errorf("centered glyph spans %d..%d, want within 31..37", minX, maxX)
	}

	r.Fill(Black)
	r.TextRight(70, 0, "I", White, 1)
	for y := 0; y < 20; y++ {
		for x := 0; x < 63; x++ {
			if r.At(x, y) == White {
				t.Fatalf("right aligned glyph at %d,%d", x, y)
			}
		}
	}
}

func TestColorHelpers(t *testing.T) {
	if got := RGB(255, 255, 255); got != White {
		t.Errorf("RGB white = %#04x", got)
	}
	if got := RGB(255, 0, 0); got != Danger {
		t.Errorf("RGB red = %#04x", got)
	}
	if got := RGB(0, 255, 0); got != Success {
		t.Errorf("RGB green = %#04x", got)
	}
	r, g, b := White.RGB8()
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("White.RGB8 = %d,%d,%d", r, g, b)
	}
	if got := HSV(0, 1, 1); got != Danger {
		t.Errorf("HSV red = %#04x", got)
	}
	if got := HSV(360+120, 1, 1); got != Success {
		t.Errorf("HSV wrapped green = %#04x", got)
	}
	if got := HSV(0, 0, 0); got != Black {
		t.Errorf("HSV black = %#04x", got)
	}
	if got := Blend(Black, White, 0); got != Black {
		t.Errorf("Blend t=0 = %#04x", got)
	}
	if got := Blend(Black, White, 1); got != White {
		t.Errorf("Blend t=1 = %#04x", got)
	}
	if got := Blend(Black, White, 7); got != White {
		t.Errorf("Blend clamps t: %#04x", got)
	}
}
