// Package display provides the sinks a render.Renderer flushes frames to.
//
// Memory keeps the last frame for tests and headless runs. Terminal paints
// frames into a tcell screen using half-block glyphs, two panel rows per
// terminal row, and reports mouse presses as touches.
package display
