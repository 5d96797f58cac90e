package screen

import "github.com/dshills/gamemaker/internal/render"

const buttonRadius = 8

// Button is a rounded, labelled touch target.
type Button struct {
	X, Y, W, H int
	Label      string
	Color      render.Color
	Background render.Color
	Disabled   bool
}

// NewButton creates an enabled button.
func NewButton(x, y, w, h int, label string, fg, bg render.Color) *Button {
	return &Button{X: x, Y: y, W: w, H: h, Label: label, Color: fg, Background: bg}
}

// Draw renders the button with its label centered.
func (b *Button) Draw(r *render.Renderer) {
	fg, bg, border := b.Color, b.Background, b.Color
	if b.Disabled {
		fg, bg, border = render.TextSecondary, render.ButtonBG, render.ButtonBorder
	}
	r.RoundedRect(b.X, b.Y, b.W, b.H, buttonRadius, bg, true)
	r.RoundedRect(b.X, b.Y, b.W, b.H, buttonRadius, border, false)

	tx := b.X + (b.W-render.TextWidth(b.Label, 1))/2
	ty := b.Y + (b.H-render.GlyphHeight)/2
	r.Text(tx, ty, b.Label, fg, 1)
}

// Contains reports whether (x, y) hits the button. Edges are inclusive and
// disabled buttons never hit.
func (b *Button) Contains(x, y int) bool {
	return !b.Disabled &&
		x >= b.X && x <= b.X+b.W &&
		y >= b.Y && y <= b.Y+b.H
}
