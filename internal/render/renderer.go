package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoDisplay is returned by Flush when the renderer has no display attached.
var ErrNoDisplay = errors.New("render: no display attached")

// Display receives finished frames.
//
// Present must not retain pix after it returns; the renderer reuses the
// buffer for the next frame.
type Display interface {
	Present(pix []uint16, width, height int) error
}

// Renderer draws into an offscreen RGB565 framebuffer.
//
// A Renderer is not safe for concurrent use. The runtime drives it from the
// single frame loop goroutine.
type Renderer struct {
	width   int
	height  int
	pix     []uint16
	display Display
	flushes int
}

// New creates a renderer with a cleared framebuffer of width*height pixels.
func New(width, height int, display Display) *Renderer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Renderer{
		width:   width,
		height:  height,
		pix:     make([]uint16, width*height),
		display: display,
	}
}

// Width returns the framebuffer width in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the framebuffer height in pixels.
func (r *Renderer) Height() int { return r.height }

// Flushes returns how many frames have been handed to the display.
func (r *Renderer) Flushes() int { return r.flushes }

// At returns the color at (x, y), or Black when out of bounds.
func (r *Renderer) At(x, y int) Color {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return Black
	}
	return Color(r.pix[y*r.width+x])
}

// Pixels exposes the raw framebuffer. Callers must treat it as read-only.
func (r *Renderer) Pixels() []uint16 { return r.pix }

// Flush hands the current framebuffer to the display.
func (r *Renderer) Flush() error {
	if r.display == nil {
		return ErrNoDisplay
	}
	if err := r.display.Present(r.pix, r.width, r.height); err != nil {
		return fmt.Errorf("render: present frame: %w", err)
	}
	r.flushes++
	return nil
}

// Fill paints the whole framebuffer.
func (r *Renderer) Fill(c Color) {
	v := uint16(c)
	for i := range r.pix {
		r.pix[i] = v
	}
}

// Pixel sets one pixel; off-screen coordinates are ignored.
func (r *Renderer) Pixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	r.pix[y*r.width+x] = uint16(c)
}

// fillRect is the clipping primitive every filled shape reduces to.
func (r *Renderer) fillRect(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, r.width), min(y+h, r.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	v := uint16(c)
	for yy := y0; yy < y1; yy++ {
		row := r.pix[yy*r.width : yy*r.width+r.width]
		for xx := x0; xx < x1; xx++ {
			row[xx] = v
		}
	}
}

// HLine draws a horizontal run of w pixels starting at (x, y).
func (r *Renderer) HLine(x, y, w int, c Color) {
	r.fillRect(x, y, w, 1, c)
}

// VLine draws a vertical run of h pixels starting at (x, y).
func (r *Renderer) VLine(x, y, h int, c Color) {
	r.fillRect(x, y, 1, h, c)
}

// Line draws a Bresenham line including both endpoints. Segments that
// leave the framebuffer are clipped first, so the cost is bounded by the
// visible span.
func (r *Renderer) Line(x0, y0, x1, y1 int, c Color) {
	if !r.onScreen(x0, y0) || !r.onScreen(x1, y1) {
		var ok bool
		if x0, y0, x1, y1, ok = r.clipLine(x0, y0, x1, y1); !ok {
			return
		}
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		r.Pixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (r *Renderer) onScreen(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// clipLine is Liang-Barsky against the framebuffer grown by one pixel.
// Endpoints already inside the box are returned unchanged.
func (r *Renderer) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	if r.width == 0 || r.height == 0 {
		return 0, 0, 0, 0, false
	}
	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	lo, hiX, hiY := -1.0, float64(r.width), float64(r.height)

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, fx - lo},
		{dx, hiX - fx},
		{-dy, fy - lo},
		{dy, hiY - fy},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}

	clamp := func(v, hi float64) int {
		return int(math.Round(max(lo, min(v, hi))))
	}
	if t0 > 0 {
		x0, y0 = clamp(fx+t0*dx, hiX), clamp(fy+t0*dy, hiY)
	}
	if t1 < 1 {
		x1, y1 = clamp(fx+t1*dx, hiX), clamp(fy+t1*dy, hiY)
	}
	return x0, y0, x1, y1, true
}

// Rect draws a w*h rectangle outline, or a filled block when fill is set.
func (r *Renderer) Rect(x, y, w, h int, c Color, fill bool) {
	if w <= 0 || h <= 0 {
		return
	}
	if fill {
		r.fillRect(x, y, w, h, c)
		return
	}
	r.fillRect(x, y, w, 1, c)
	r.fillRect(x, y+h-1, w, 1, c)
	r.fillRect(x, y, 1, h, c)
	r.fillRect(x+w-1, y, 1, h, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
