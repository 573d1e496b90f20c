// ABOUTME: Playback controller package
// ABOUTME: Enforces single active playback over an injected rendering engine
// Package playback plays audio buffers one at a time on an output engine.
//
// The controller is a two-state machine (Idle, Playing). Starting a new
// playback always stops the previous one first, and a rate is fixed for
// the lifetime of one playback.
//
// Example:
//
//	eng, _ := output.New(output.BackendOto, output.DefaultOptions())
//	ctrl := playback.New(eng, playback.Config{})
//	err := ctrl.Play(buf, 1.25)
//	...
//	err = ctrl.Stop()
package playback
