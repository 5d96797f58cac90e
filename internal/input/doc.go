// Package input provides the touch reader capability.
//
// A Reader reports at most one touch point per call. The runtime polls it
// once per frame; plugins poll it through touch:read(). Readers compose:
// a raw source such as the FT6x36 controller or a Latch fed by the
// terminal simulator is usually wrapped in a Calibrated decorator that maps
// raw controller coordinates to panel pixels.
package input
