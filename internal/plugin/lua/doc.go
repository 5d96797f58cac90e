// Package lua provides the Lua runtime that plugins execute in.
//
// This package wraps the gopher-lua library to provide:
//   - Fresh, sandboxed states with only the base, table, string and math
//     libraries
//   - Guarded calls that turn Lua errors, Go panics and budget overruns
//     into *ScriptError values
//   - A bridge that exposes the renderer and touch reader as userdata
//
// # State
//
//	state, err := lua.NewState(
//	    lua.WithCallBudget(2 * time.Second),
//	    lua.WithPrint(func(s string) { logger.Debug("plugin: %s", s) }),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	bridge := lua.NewBridge(state.LuaState())
//	state.SetGlobal("renderer", bridge.Renderer(r))
//	state.SetGlobal("touch", bridge.Touch(in))
//
//	if err := state.Load(ctx, "snake", source); err != nil {
//	    return err
//	}
//
// # Sandbox
//
// The Sandbox strips every global that can load code or reach the host:
// dofile, loadfile, load, loadstring, require and module. Plugin print
// output is redirected to a callback. There is no instruction or memory
// quota; the call budget is the only execution limit.
package lua
