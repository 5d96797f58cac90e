// Package render provides the drawing surface capability handed to plugins
// and to the built-in screens.
//
// A Renderer owns an offscreen RGB565 framebuffer. Every primitive clips
// against the panel bounds, so off-screen writes are silently dropped and
// never fault. Nothing reaches the physical panel until Flush hands the
// framebuffer to the configured Display.
//
//	r := render.New(320, 480, display.NewMemory())
//	r.Fill(render.Background)
//	r.TextCentered(200, "READY", render.Primary, 3)
//	r.Flush()
package render
