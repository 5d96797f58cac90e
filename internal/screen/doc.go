// Package screen implements the screen host: the single owner of the active
// UI context and the fixed-rate frame loop that drives it.
//
// Exactly one Screen is entered at any time. ChangeScreen exits the old
// screen before entering the new one, and a screen may request another
// transition from inside its own Enter. Each frame the host reads one touch
// sample, forwards it if pressed, then calls Update and Draw on whatever
// screen is active at that point, and sleeps out the rest of the frame
// period.
package screen
