// Package plugin loads generated Lua programs and runs them as screens.
//
// A plugin is either a game or an app (see Kind). Both are driven by the
// same Runner, which is a screen.Screen:
//
//	runner := plugin.NewGame("snake", plugin.Options{
//	    Source:   store,
//	    Renderer: r,
//	    Touch:    host.Touch(),
//	    Screens:  host,
//	    Back:     func() screen.Screen { return explorer },
//	})
//	host.ChangeScreen(runner)
//
// # Entry points
//
// After the source is evaluated the runner looks for, in order:
//
//  1. A class table (Game or App) with a new(renderer, touch) constructor.
//     The returned instance supplies update(self, frame),
//     draw(self, renderer, frame) and on_touch(self, x, y).
//  2. A pre-built instance global (game or app) with the same methods.
//  3. Global functions update(frame), draw(renderer, frame) and
//     on_touch(x, y).
//
// At least one of update and draw must exist. handle_touch is accepted in
// place of on_touch.
//
// # Faults
//
// Every call into plugin code is guarded and bounded by a call budget. A
// failure while loading or during update or draw moves the runner to
// StateErrored and the plugin is never called again; the error panel
// offers a way back to the explorer. A failure in the touch handler is
// logged and the plugin keeps running.
package plugin
