// ABOUTME: Playback controller state machine
// ABOUTME: Owns the current playback handle and reacts to natural completion
package playback

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/pkg/audio"
	"github.com/sawtlab/sawt-go/pkg/audio/output"
)

// Playback rate bounds, inclusive
const (
	MinRate = 0.5
	MaxRate = 2.0
)

// State is the controller's playback state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ValidateRate checks that rate lies in [MinRate, MaxRate]
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate < MinRate || rate > MaxRate {
		return fmt.Errorf("%w: playback rate %v outside [%v, %v]", audio.ErrInvalidArgument, rate, MinRate, MaxRate)
	}
	return nil
}

// Config holds controller configuration
type Config struct {
	// OnStateChange is called after every transition, outside the lock
	OnStateChange func(State)
}

// handle is one started playback
type handle struct {
	node output.Node
}

// Controller plays at most one buffer at a time
type Controller struct {
	engine output.Engine
	config Config

	mu      sync.Mutex
	state   State
	current *handle
	closed  bool
}

// New creates a controller over an engine owned by the caller
func New(engine output.Engine, config Config) *Controller {
	return &Controller{
		engine: engine,
		config: config,
		state:  Idle,
	}
}

// Play stops any current playback and starts buf at rate.
// An invalid argument leaves the controller untouched; an engine failure
// leaves it Idle.
func (c *Controller) Play(buf *audio.Buffer, rate float64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := ValidateRate(rate); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%w: controller is closed", audio.ErrEngine)
	}

	prev := c.state
	err := c.startLocked(buf, rate)
	next := c.state
	c.mu.Unlock()

	// Playing -> Playing still passes through Idle
	if prev == Playing {
		c.notify(Idle)
	}
	if next == Playing {
		c.notify(Playing)
	}
	return err
}

func (c *Controller) startLocked(buf *audio.Buffer, rate float64) error {
	if err := c.releaseLocked(); err != nil {
		return err
	}

	if c.engine.Suspended() {
		if err := c.engine.Resume(); err != nil {
			return engineError("resume engine", err)
		}
	}

	node, err := c.engine.NewNode(buf)
	if err != nil {
		return engineError("create node", err)
	}

	h := &handle{node: node}
	node.SetRate(rate)
	node.OnComplete(func() { c.complete(h) })

	if err := node.Start(); err != nil {
		if stopErr := node.Stop(); stopErr != nil {
			log.Warn().Err(stopErr).Msg("Failed to release node after start failure")
		}
		return engineError("start node", err)
	}

	c.current = h
	c.state = Playing

	log.Debug().
		Int("frames", buf.FrameCount()).
		Float64("rate", rate).
		Dur("duration", buf.Duration()).
		Msg("Playback started")
	return nil
}

// releaseLocked stops the current node and goes Idle. The handle is
// dropped even when Stop fails.
func (c *Controller) releaseLocked() error {
	h := c.current
	c.current = nil
	c.state = Idle
	if h == nil {
		return nil
	}
	if err := h.node.Stop(); err != nil {
		return engineError("stop node", err)
	}
	return nil
}

// complete handles natural end of playback for h
func (c *Controller) complete(h *handle) {
	c.mu.Lock()
	if c.current != h {
		// Stopped or replaced before the callback ran
		c.mu.Unlock()
		return
	}
	err := c.releaseLocked()
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Failed to release node after completion")
	}
	log.Debug().Msg("Playback completed")
	c.notify(Idle)
}

// Stop halts playback. Stopping while Idle is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	wasPlaying := c.state == Playing
	err := c.releaseLocked()
	c.mu.Unlock()

	if wasPlaying {
		c.notify(Idle)
	}
	return err
}

// IsPlaying reports whether a playback is active
func (c *Controller) IsPlaying() bool {
	return c.State() == Playing
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close stops playback and rejects further Play calls. The engine is
// not closed; it belongs to the caller.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.Stop()
}

func (c *Controller) notify(s State) {
	if c.config.OnStateChange != nil {
		c.config.OnStateChange(s)
	}
}

func engineError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", audio.ErrEngine, op, err)
}
