// ABOUTME: Audio rendering engine interface definition
// ABOUTME: Common interface for playback backends and their transient nodes
package output

import (
	"fmt"
	"time"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// Backend names accepted by New
const (
	BackendOto   = "oto"
	BackendMalgo = "malgo"
)

// Engine represents a shared audio rendering context
type Engine interface {
	// Suspended reports whether Resume is needed before nodes can play
	Suspended() bool

	// Resume initializes the context on first use and leaves it running
	Resume() error

	// NewNode creates a playback node bound to buf
	NewNode(buf *audio.Buffer) (Node, error)

	// Close releases the context
	Close() error
}

// Node is one transient rendering of a buffer.
//
// Stop halts and releases the node and is safe to call more than once. The
// completion callback runs on its own goroutine after the buffer has been
// rendered; it may race with Stop, so owners must ignore completions from
// nodes they have already released.
type Node interface {
	// SetRate sets the speed multiplier applied from Start onward
	SetRate(rate float64)

	// OnComplete registers the natural-completion callback
	OnComplete(fn func())

	// Start begins rendering
	Start() error

	// Stop halts rendering and releases the node
	Stop() error
}

// Options configures an engine's output format
type Options struct {
	SampleRate int
	Channels   int
	BufferSize time.Duration
}

// DefaultOptions matches the speech service format
func DefaultOptions() Options {
	return Options{
		SampleRate: audio.InputFormat.SampleRate,
		Channels:   audio.InputFormat.Channels,
		BufferSize: 100 * time.Millisecond,
	}
}

// New creates an engine for the named backend
func New(backend string, opts Options) (Engine, error) {
	if opts.SampleRate <= 0 || opts.Channels <= 0 {
		return nil, fmt.Errorf("%w: invalid output format %dHz/%dch", audio.ErrInvalidArgument, opts.SampleRate, opts.Channels)
	}

	switch backend {
	case BackendOto, "":
		return NewOto(opts), nil
	case BackendMalgo:
		return NewMalgo(opts), nil
	default:
		return nil, fmt.Errorf("%w: unknown audio backend %q (supported: %s, %s)",
			audio.ErrInvalidArgument, backend, BackendOto, BackendMalgo)
	}
}

// checkNodeFormat verifies a buffer can be rendered by an engine
func checkNodeFormat(buf *audio.Buffer, opts Options) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Format.Channels != opts.Channels {
		return fmt.Errorf("%w: buffer has %d channels, output has %d",
			audio.ErrEngine, buf.Format.Channels, opts.Channels)
	}
	return nil
}
