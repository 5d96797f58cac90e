package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 16-bit RGB565 value.
type Color uint16

// Palette shared by the built-in screens.
const (
	Black         Color = 0x0000
	White         Color = 0xFFFF
	Background    Color = 0x1082
	Primary       Color = 0x07FF
	Secondary     Color = 0x4FE6
	Accent        Color = 0xF986
	Success       Color = 0x07E0
	Warning       Color = 0xFD20
	Danger        Color = 0xF800
	Text          Color = 0xFFFF
	TextSecondary Color = 0x8410
	ButtonBG      Color = 0x2945
	ButtonBorder  Color = 0x4A69
)

// RGB packs 8-bit channels into RGB565.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB8 expands the color into 8-bit channels.
func (c Color) RGB8() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// Colorful converts the color for blending and color-space math.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.RGB8()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FromColorful packs a colorful.Color, clamping out-of-gamut values.
func FromColorful(cc colorful.Color) Color {
	r, g, b := cc.Clamped().RGB255()
	return RGB(r, g, b)
}

// HSV builds a color from hue in degrees and saturation/value in [0,1].
func HSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return FromColorful(colorful.Hsv(h, clamp01(s), clamp01(v)))
}

// Blend mixes a toward b by t in [0,1] in RGB space.
func Blend(a, b Color, t float64) Color {
	return FromColorful(a.Colorful().BlendRgb(b.Colorful(), clamp01(t)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
