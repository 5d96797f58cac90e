// Package ui implements the built-in screens of the console: splash,
// main menu, description builders, generation progress, plugin explorers,
// settings and about.
//
// A Shell creates every screen and links them, so screens never refer to
// each other directly:
//
//	shell := ui.New(ui.Options{
//	    Renderer:  renderer,
//	    Touch:     host.Touch(),
//	    Screens:   host,
//	    Games:     games,
//	    Apps:      apps,
//	    Generator: generator,
//	})
//	host.Start(ctx, shell.Splash())
//
// Screens that need storage or the generator do that work in Enter or
// Update, where a context is available; touch handlers only record the
// request.
package ui
