// ABOUTME: Fan-out of playback state changes from the controller callback
// ABOUTME: Feeds the TUI and lets batch mode wait for natural completion
package main

import (
	"sync"

	"github.com/sawtlab/sawt-go/pkg/playback"
)

type playbackEvents struct {
	mu      sync.Mutex
	forward func(playback.State)
	idle    chan struct{}
}

func newPlaybackEvents() *playbackEvents {
	return &playbackEvents{}
}

// forwardTo sends every later state change to fn
func (e *playbackEvents) forwardTo(fn func(playback.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forward = fn
}

// subscribe returns a channel closed on the next transition to Idle
func (e *playbackEvents) subscribe() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idle = make(chan struct{})
	return e.idle
}

func (e *playbackEvents) publish(s playback.State) {
	e.mu.Lock()
	fn := e.forward
	var idle chan struct{}
	if s == playback.Idle && e.idle != nil {
		idle = e.idle
		e.idle = nil
	}
	e.mu.Unlock()

	if idle != nil {
		close(idle)
	}
	if fn != nil {
		fn(s)
	}
}
