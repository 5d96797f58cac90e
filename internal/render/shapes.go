package render

import "math"

// Quadrant bits accepted by Ellipse.
const (
	QuadTopRight    uint8 = 1 << 0
	QuadTopLeft     uint8 = 1 << 1
	QuadBottomLeft  uint8 = 1 << 2
	QuadBottomRight uint8 = 1 << 3
	QuadAll               = QuadTopRight | QuadTopLeft | QuadBottomLeft | QuadBottomRight
)

// Circle draws a circle of radius rad centered on (cx, cy).
func (r *Renderer) Circle(cx, cy, rad int, c Color, fill bool) {
	r.Ellipse(cx, cy, rad, rad, c, fill, QuadAll)
}

// Ellipse draws the quadrants selected by mask of an axis-aligned ellipse.
// A mask with no quadrant bits draws all four.
func (r *Renderer) Ellipse(cx, cy, rx, ry int, c Color, fill bool, mask uint8) {
	mask &= QuadAll
	if mask == 0 {
		mask = QuadAll
	}
	if rx < 0 || ry < 0 {
		return
	}
	if rx == 0 && ry == 0 {
		r.Pixel(cx, cy, c)
		return
	}
	if r.ellipseMisses(cx, cy, rx, ry) {
		return
	}
	limit := r.radiusLimit()
	rx, ry = min(rx, limit), min(ry, limit)

	twoA2 := 2 * rx * rx
	twoB2 := 2 * ry * ry

	x, y := rx, 0
	xChange := ry * ry * (1 - 2*rx)
	yChange := rx * rx
	e := 0
	stopX := twoB2 * rx
	stopY := 0
	for stopX >= stopY {
		r.ellipsePoints(cx, cy, x, y, c, fill, mask)
		y++
		stopY += twoA2
		e += yChange
		yChange += twoA2
		if 2*e+xChange > 0 {
			x--
			stopX -= twoB2
			e += xChange
			xChange += twoB2
		}
	}

	x, y = 0, ry
	xChange = ry * ry
	yChange = rx * rx * (1 - 2*ry)
	e = 0
	stopX = 0
	stopY = twoA2 * ry
	for stopX <= stopY {
		r.ellipsePoints(cx, cy, x, y, c, fill, mask)
		x++
		stopX += twoB2
		e += xChange
		xChange += twoB2
		if 2*e+yChange > 0 {
			y--
			stopY -= twoA2
			e += yChange
			yChange += twoA2
		}
	}
}

// ellipseMisses reports whether the bounding box of the ellipse lies wholly
// outside the framebuffer. The sums are taken in float64 so that extreme
// inputs cannot wrap.
func (r *Renderer) ellipseMisses(cx, cy, rx, ry int) bool {
	fx, fy := float64(cx), float64(cy)
	return fx+float64(rx) < 0 || fx-float64(rx) >= float64(r.width) ||
		fy+float64(ry) < 0 || fy-float64(ry) >= float64(r.height)
}

// radiusLimit caps ellipse radii. Larger radii are drawn at the cap.
func (r *Renderer) radiusLimit() int {
	return 2 * max(r.width, r.height, 1)
}

func (r *Renderer) ellipsePoints(cx, cy, x, y int, c Color, fill bool, mask uint8) {
	if fill {
		if mask&QuadTopRight != 0 {
			r.fillRect(cx, cy-y, x+1, 1, c)
		}
		if mask&QuadTopLeft != 0 {
			r.fillRect(cx-x, cy-y, x+1, 1, c)
		}
		if mask&QuadBottomLeft != 0 {
			r.fillRect(cx-x, cy+y, x+1, 1, c)
		}
		if mask&QuadBottomRight != 0 {
			r.fillRect(cx, cy+y, x+1, 1, c)
		}
		return
	}
	if mask&QuadTopRight != 0 {
		r.Pixel(cx+x, cy-y, c)
	}
	if mask&QuadTopLeft != 0 {
		r.Pixel(cx-x, cy-y, c)
	}
	if mask&QuadBottomLeft != 0 {
		r.Pixel(cx-x, cy+y, c)
	}
	if mask&QuadBottomRight != 0 {
		r.Pixel(cx+x, cy+y, c)
	}
}

// RoundedRect draws a rectangle whose corners are quarter circles of radius rad.
func (r *Renderer) RoundedRect(x, y, w, h, rad int, c Color, fill bool) {
	if w <= 0 || h <= 0 {
		return
	}
	rad = max(0, min(rad, w/2, h/2))
	if rad == 0 {
		r.Rect(x, y, w, h, c, fill)
		return
	}
	left, right := x+rad, x+w-rad-1
	top, bottom := y+rad, y+h-rad-1
	if fill {
		r.fillRect(x+rad, y, w-2*rad, h, c)
		r.fillRect(x, y+rad, w, h-2*rad, c)
	} else {
		r.HLine(x+rad, y, w-2*rad, c)
		r.HLine(x+rad, y+h-1, w-2*rad, c)
		r.VLine(x, y+rad, h-2*rad, c)
		r.VLine(x+w-1, y+rad, h-2*rad, c)
	}
	r.Ellipse(left, top, rad, rad, c, fill, QuadTopLeft)
	r.Ellipse(right, top, rad, rad, c, fill, QuadTopRight)
	r.Ellipse(left, bottom, rad, rad, c, fill, QuadBottomLeft)
	r.Ellipse(right, bottom, rad, rad, c, fill, QuadBottomRight)
}

// Triangle draws a triangle outline, or scanline-fills it.
func (r *Renderer) Triangle(x0, y0, x1, y1, x2, y2 int, c Color, fill bool) {
	if !fill {
		r.Line(x0, y0, x1, y1, c)
		r.Line(x1, y1, x2, y2, c)
		r.Line(x2, y2, x0, y0, c)
		return
	}

	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		lo := min(x0, x1, x2)
		hi := max(x0, x1, x2)
		r.HLine(lo, y0, hi-lo+1, c)
		return
	}

	for y := max(y0, 0); y <= min(y2, r.height-1); y++ {
		var xa int
		if y < y1 {
			xa = x0 + floorDiv((x1-x0)*(y-y0), y1-y0)
		} else if y2 != y1 {
			xa = x1 + floorDiv((x2-x1)*(y-y1), y2-y1)
		} else {
			xa = x1
		}
		xb := x0 + floorDiv((x2-x0)*(y-y0), y2-y0)
		if xa > xb {
			xa, xb = xb, xa
		}
		r.HLine(xa, y, xb-xa+1, c)
	}
}

// ProgressBar draws a pill-shaped bar filled to progress, clamped to [0,1].
func (r *Renderer) ProgressBar(x, y, w, h int, progress float64, bg, fg Color) {
	r.RoundedRect(x, y, w, h, h/2, bg, true)
	if math.IsNaN(progress) || progress <= 0 {
		return
	}
	filled := int(float64(w) * math.Min(progress, 1))
	if filled > 0 {
		r.RoundedRect(x, y, filled, h, h/2, fg, true)
	}
}
