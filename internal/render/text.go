package render

import (
	"github.com/rivo/uniseg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// Glyph cell metrics of the built-in font at scale 1.
const (
	GlyphWidth  = 7
	GlyphHeight = 13
)

// TextWidth returns the pixel width of s drawn at scale. Each grapheme
// cluster occupies one fixed-width cell.
func TextWidth(s string, scale int) int {
	return uniseg.GraphemeClusterCount(s) * GlyphWidth * normScale(scale)
}

// Text draws s with its top-left corner at (x, y).
func (r *Renderer) Text(x, y int, s string, c Color, scale int) {
	scale = normScale(scale)
	g := uniseg.NewGraphemes(s)
	cx := x
	for g.Next() {
		if cx >= r.width {
			return
		}
		runes := g.Runes()
		if len(runes) > 0 {
			r.glyph(cx, y, runes[0], c, scale)
		}
		cx += GlyphWidth * scale
	}
}

// TextCentered draws s horizontally centered on the framebuffer.
func (r *Renderer) TextCentered(y int, s string, c Color, scale int) {
	x := floorDiv(r.width-TextWidth(s, scale), 2)
	r.Text(x, y, s, c, scale)
}

// TextRight draws s so that it ends at x.
func (r *Renderer) TextRight(x, y int, s string, c Color, scale int) {
	r.Text(x-TextWidth(s, scale), y, s, c, scale)
}

func (r *Renderer) glyph(x, y int, ch rune, c Color, scale int) {
	if ch == ' ' {
		return
	}
	dr, mask, mp, _, ok := face.Glyph(fixed.P(0, face.Ascent), ch)
	if !ok {
		dr, mask, mp, _, ok = face.Glyph(fixed.P(0, face.Ascent), '?')
		if !ok {
			return
		}
	}
	for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
		for gx := dr.Min.X; gx < dr.Max.X; gx++ {
			_, _, _, a := mask.At(mp.X+gx-dr.Min.X, mp.Y+gy-dr.Min.Y).RGBA()
			if a == 0 {
				continue
			}
			r.fillRect(x+gx*scale, y+gy*scale, scale, scale, c)
		}
	}
}

func normScale(scale int) int {
	if scale < 1 {
		return 1
	}
	return scale
}
