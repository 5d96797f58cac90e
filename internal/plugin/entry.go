package plugin

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/gamemaker/internal/plugin/lua"
)

// Shape identifies how a plugin exposes its hooks.
type Shape int

// Entry-point shapes.
const (
	// ShapeObject - an instance with update/draw/on_touch methods.
	ShapeObject Shape = iota

	// ShapeFunctions - global update/draw/on_touch functions.
	ShapeFunctions
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeFunctions:
		return "functions"
	default:
		return "unknown"
	}
}

// Hook names looked up on instances and globals. handle_touch is accepted
// as an alias because generated sources use both spellings.
const (
	hookUpdate      = "update"
	hookDraw        = "draw"
	hookTouch       = "on_touch"
	hookTouchAlias  = "handle_touch"
	constructorName = "new"
)

// Entry is a resolved plugin entry point. It is resolved once after
// evaluation; per-frame dispatch goes through call and never inspects the
// shape again. Missing hooks are nil and calling them is a no-op.
type Entry struct {
	Shape Shape

	instance lua.LValue
	self     []lua.LValue

	update lua.LValue
	draw   lua.LValue
	touch  lua.LValue
}

// HasDraw reports whether the plugin supplies a draw hook.
func (e *Entry) HasDraw() bool { return e.draw != nil }

// call invokes hook with the self argument prepended for object shapes.
func (e *Entry) call(ctx context.Context, st *plua.State, hook lua.LValue, args ...lua.LValue) error {
	if hook == nil {
		return nil
	}
	full := make([]lua.LValue, 0, len(e.self)+len(args))
	full = append(full, e.self...)
	full = append(full, args...)
	_, err := st.Call(ctx, hook, 0, full...)
	return err
}

// resolveEntry finds the entry point of an evaluated plugin, in priority
// order: the kind's class constructor, a pre-built instance global, then
// global functions. renderer and touch are passed to the constructor.
func resolveEntry(ctx context.Context, st *plua.State, kind Kind, renderer, touch lua.LValue) (*Entry, error) {
	class := st.Global(kind.ClassName())
	if isObject(class) {
		ctor, err := st.Field(ctx, class, constructorName)
		if err != nil {
			return nil, fmt.Errorf("%s.%s lookup: %w", kind.ClassName(), constructorName, err)
		}
		if fn, ok := ctor.(*lua.LFunction); ok {
			args := []lua.LValue{renderer, touch}
			if takesSelf(fn) {
				args = []lua.LValue{class, renderer, touch}
			}
			res, err := st.Call(ctx, fn, 1, args...)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", kind.ClassName(), constructorName, err)
			}
			if !isObject(res[0]) {
				return nil, fmt.Errorf("%s.%s returned %s, want a table: %w",
					kind.ClassName(), constructorName, res[0].Type(), ErrNoEntryPoint)
			}
			entry, err := objectEntry(ctx, st, res[0])
			if err != nil {
				return nil, err
			}
			if entry != nil {
				return entry, nil
			}
			return nil, fmt.Errorf("%s instance has no %s or %s method: %w",
				kind.ClassName(), hookUpdate, hookDraw, ErrNoEntryPoint)
		}
	}

	if inst := st.Global(kind.InstanceName()); isObject(inst) {
		entry, err := objectEntry(ctx, st, inst)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}

	update := asFunction(st.Global(hookUpdate))
	draw := asFunction(st.Global(hookDraw))
	if update != nil || draw != nil {
		touch := asFunction(st.Global(hookTouch))
		if touch == nil {
			touch = asFunction(st.Global(hookTouchAlias))
		}
		return &Entry{Shape: ShapeFunctions, update: update, draw: draw, touch: touch}, nil
	}

	return nil, fmt.Errorf("no %s class and no %s/%s functions: %w",
		kind.ClassName(), hookUpdate, hookDraw, ErrNoEntryPoint)
}

// objectEntry builds an object-shape entry, or returns nil when obj has
// neither update nor draw.
func objectEntry(ctx context.Context, st *plua.State, obj lua.LValue) (*Entry, error) {
	lookup := func(name string) (lua.LValue, error) {
		v, err := st.Field(ctx, obj, name)
		if err != nil {
			return nil, fmt.Errorf("method %s lookup: %w", name, err)
		}
		return asFunction(v), nil
	}

	update, err := lookup(hookUpdate)
	if err != nil {
		return nil, err
	}
	draw, err := lookup(hookDraw)
	if err != nil {
		return nil, err
	}
	if update == nil && draw == nil {
		return nil, nil
	}
	touch, err := lookup(hookTouch)
	if err != nil {
		return nil, err
	}
	if touch == nil {
		if touch, err = lookup(hookTouchAlias); err != nil {
			return nil, err
		}
	}

	return &Entry{
		Shape:    ShapeObject,
		instance: obj,
		self:     []lua.LValue{obj},
		update:   update,
		draw:     draw,
		touch:    touch,
	}, nil
}

func isObject(v lua.LValue) bool {
	if v == nil {
		return false
	}
	t := v.Type()
	return t == lua.LTTable || t == lua.LTUserData
}

// asFunction returns v if it is a function, nil otherwise.
func asFunction(v lua.LValue) lua.LValue {
	if fn, ok := v.(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// takesSelf reports whether a constructor was declared with the colon
// syntax, which adds an implicit self parameter ahead of renderer, touch.
func takesSelf(fn *lua.LFunction) bool {
	p := fn.Proto
	if p == nil || p.NumParameters == 0 {
		return false
	}
	if len(p.DbgLocals) > 0 && p.DbgLocals[0] != nil {
		return p.DbgLocals[0].Name == "self"
	}
	return p.NumParameters >= 3
}
