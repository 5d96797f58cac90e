package lua

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gamemaker/internal/input"
	"github.com/dshills/gamemaker/internal/render"
)

// Metatable names of the capability userdata types.
const (
	RendererTypeName = "gamemaker.renderer"
	TouchTypeName    = "gamemaker.touch"
)

// Bridge exposes host capability objects to Lua.
//
// Capabilities are userdata whose methods close over the Go object, so
// plugins can call them either as methods (renderer:fill(c)) or as plain
// fields (renderer.fill(c)). All numeric arguments are truncated to
// integers except where a method takes a fraction.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// Renderer wraps r as a Lua userdata.
func (b *Bridge) Renderer(r *render.Renderer) *lua.LUserData {
	return b.object(RendererTypeName, r, rendererMethods(r))
}

// Touch wraps in as a Lua userdata with a single read method returning
// pressed, x, y.
func (b *Bridge) Touch(in input.Reader) *lua.LUserData {
	return b.object(TouchTypeName, in, map[string]argFunc{
		"read": func(L *lua.LState, a args) int {
			pressed, x, y := in.Read()
			L.Push(lua.LBool(pressed))
			L.Push(lua.LNumber(x))
			L.Push(lua.LNumber(y))
			return 3
		},
	})
}

// argFunc receives its arguments with the optional self already skipped.
type argFunc func(L *lua.LState, a args) int

// args indexes call arguments relative to the first non-self argument.
type args struct {
	L    *lua.LState
	base int
}

// CoordLimit bounds every integer argument. NaN reads as zero and larger
// magnitudes, infinities included, saturate at ±CoordLimit.
const CoordLimit = 1 << 24

func (a args) int(n int) int {
	v := float64(a.L.CheckNumber(a.base + n))
	switch {
	case math.IsNaN(v):
		return 0
	case v > CoordLimit:
		return CoordLimit
	case v < -CoordLimit:
		return -CoordLimit
	}
	return int(v)
}

func (a args) optInt(n, def int) int {
	v := a.L.Get(a.base + n)
	if v == lua.LNil {
		return def
	}
	return a.int(n)
}

func (a args) float(n int) float64 {
	return float64(a.L.CheckNumber(a.base + n))
}

// color keeps the low 16 bits of the truncated number. Non-finite values
// read as black.
func (a args) color(n int) render.Color {
	v := float64(a.L.CheckNumber(a.base + n))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return render.Black
	}
	return render.Color(uint16(int64(math.Mod(math.Trunc(v), 1<<16))))
}

func (a args) bool(n int) bool {
	return lua.LVAsBool(a.L.Get(a.base + n))
}

func (a args) text(n int) string {
	return a.L.ToStringMeta(a.L.Get(a.base + n)).String()
}

func (b *Bridge) object(typeName string, value any, methods map[string]argFunc) *lua.LUserData {
	L := b.L
	ud := L.NewUserData()
	ud.Value = value

	index := L.NewTable()
	for name, fn := range methods {
		index.RawSetString(name, L.NewFunction(func(L *lua.LState) int {
			base := 0
			if self, ok := L.Get(1).(*lua.LUserData); ok && self == ud {
				base = 1
			}
			return fn(L, args{L: L, base: base})
		}))
	}

	mt := L.NewTable()
	mt.RawSetString("__index", index)
	mt.RawSetString("__metatable", lua.LString(typeName))
	mt.RawSetString("__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(typeName))
		return 1
	}))
	L.SetMetatable(ud, mt)
	return ud
}

func rendererMethods(r *render.Renderer) map[string]argFunc {
	return map[string]argFunc{
		"fill": func(L *lua.LState, a args) int {
			r.Fill(a.color(1))
			return 0
		},
		"pixel": func(L *lua.LState, a args) int {
			r.Pixel(a.int(1), a.int(2), a.color(3))
			return 0
		},
		"line": func(L *lua.LState, a args) int {
			r.Line(a.int(1), a.int(2), a.int(3), a.int(4), a.color(5))
			return 0
		},
		"hline": func(L *lua.LState, a args) int {
			r.HLine(a.int(1), a.int(2), a.int(3), a.color(4))
			return 0
		},
		"vline": func(L *lua.LState, a args) int {
			r.VLine(a.int(1), a.int(2), a.int(3), a.color(4))
			return 0
		},
		"rect": func(L *lua.LState, a args) int {
			r.Rect(a.int(1), a.int(2), a.int(3), a.int(4), a.color(5), a.bool(6))
			return 0
		},
		"circle": func(L *lua.LState, a args) int {
			r.Circle(a.int(1), a.int(2), a.int(3), a.color(4), a.bool(5))
			return 0
		},
		"ellipse": func(L *lua.LState, a args) int {
			mask := uint8(a.optInt(7, int(render.QuadAll)))
			r.Ellipse(a.int(1), a.int(2), a.int(3), a.int(4), a.color(5), a.bool(6), mask)
			return 0
		},
		"rounded_rect": func(L *lua.LState, a args) int {
			r.RoundedRect(a.int(1), a.int(2), a.int(3), a.int(4), a.int(5), a.color(6), a.bool(7))
			return 0
		},
		"triangle": func(L *lua.LState, a args) int {
			r.Triangle(a.int(1), a.int(2), a.int(3), a.int(4), a.int(5), a.int(6), a.color(7), a.bool(8))
			return 0
		},
		"text": func(L *lua.LState, a args) int {
			r.Text(a.int(1), a.int(2), a.text(3), a.color(4), a.optInt(5, 1))
			return 0
		},
		"text_centered": func(L *lua.LState, a args) int {
			r.TextCentered(a.int(1), a.text(2), a.color(3), a.optInt(4, 1))
			return 0
		},
		"text_right": func(L *lua.LState, a args) int {
			r.TextRight(a.int(1), a.int(2), a.text(3), a.color(4), a.optInt(5, 1))
			return 0
		},
		"text_width": func(L *lua.LState, a args) int {
			L.Push(lua.LNumber(render.TextWidth(a.text(1), a.optInt(2, 1))))
			return 1
		},
		"progress_bar": func(L *lua.LState, a args) int {
			r.ProgressBar(a.int(1), a.int(2), a.int(3), a.int(4), a.float(5), a.color(6), a.color(7))
			return 0
		},
		"flush": func(L *lua.LState, a args) int {
			// Display errors are the host's concern; the plugin keeps running.
			_ = r.Flush()
			return 0
		},
		"width": func(L *lua.LState, a args) int {
			L.Push(lua.LNumber(r.Width()))
			return 1
		},
		"height": func(L *lua.LState, a args) int {
			L.Push(lua.LNumber(r.Height()))
			return 1
		},
		"rgb": func(L *lua.LState, a args) int {
			c := render.RGB(channel(a.int(1)), channel(a.int(2)), channel(a.int(3)))
			L.Push(lua.LNumber(c))
			return 1
		},
		"hsv": func(L *lua.LState, a args) int {
			L.Push(lua.LNumber(render.HSV(a.float(1), a.float(2), a.float(3))))
			return 1
		},
		"blend": func(L *lua.LState, a args) int {
			L.Push(lua.LNumber(render.Blend(a.color(1), a.color(2), a.float(3))))
			return 1
		},
	}
}

func channel(v int) uint8 {
	return uint8(max(0, min(v, 255)))
}
