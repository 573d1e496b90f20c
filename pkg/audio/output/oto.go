// ABOUTME: Oto-based audio rendering engine
// ABOUTME: Shares one process-wide oto context and renders each node through its own player
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// completionPoll is how often a node checks whether its player has drained
const completionPoll = 20 * time.Millisecond

// oto only allows one context per process
var (
	otoOnce    sync.Once
	otoShared  *oto.Context
	otoFormat  Options
	otoInitErr error
)

// sharedOtoContext lazily creates the process-wide context
func sharedOtoContext(opts Options) (*oto.Context, Options, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   opts.SampleRate,
			ChannelCount: opts.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   opts.BufferSize,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoInitErr = fmt.Errorf("%w: failed to create oto context: %v", audio.ErrEngine, err)
			return
		}

		<-readyChan

		otoShared = ctx
		otoFormat = opts
		log.Info().
			Int("sample_rate", opts.SampleRate).
			Int("channels", opts.Channels).
			Msg("Audio output initialized (oto)")
	})
	return otoShared, otoFormat, otoInitErr
}

// Oto engine implementation using oto library
type Oto struct {
	opts      Options
	mu        sync.Mutex
	otoCtx    *oto.Context
	suspended bool
}

// NewOto creates an oto engine; the context is created on first Resume
func NewOto(opts Options) Engine {
	return &Oto{
		opts: opts,
	}
}

// Suspended reports whether the context still needs Resume
func (o *Oto) Suspended() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.otoCtx == nil || o.suspended
}

// Resume creates the context if needed and resumes it if suspended
func (o *Oto) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil {
		ctx, format, err := sharedOtoContext(o.opts)
		if err != nil {
			return err
		}
		// The shared context keeps the format it was created with
		if format != o.opts {
			log.Warn().
				Int("want_rate", o.opts.SampleRate).
				Int("have_rate", format.SampleRate).
				Msg("oto context already created with a different format, reusing it")
		}
		o.otoCtx = ctx
		o.opts = format
		o.suspended = false
		return nil
	}

	if o.suspended {
		if err := o.otoCtx.Resume(); err != nil {
			return fmt.Errorf("%w: failed to resume oto context: %v", audio.ErrEngine, err)
		}
		o.suspended = false
	}
	return nil
}

// Suspend pauses all output on the shared context
func (o *Oto) Suspend() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil || o.suspended {
		return nil
	}
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("%w: failed to suspend oto context: %v", audio.ErrEngine, err)
	}
	o.suspended = true
	return nil
}

// NewNode creates a player-backed node for buf
func (o *Oto) NewNode(buf *audio.Buffer) (Node, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil || o.suspended {
		return nil, fmt.Errorf("%w: oto context is not running", audio.ErrEngine)
	}
	if err := checkNodeFormat(buf, o.opts); err != nil {
		return nil, err
	}

	return &otoNode{
		otoCtx: o.otoCtx,
		reader: newVarispeed(buf, o.opts.SampleRate),
		stopCh: make(chan struct{}),
	}, nil
}

// Close suspends the shared context; it cannot be destroyed while the process runs
func (o *Oto) Close() error {
	return o.Suspend()
}

// otoNode plays one buffer through an oto player
type otoNode struct {
	otoCtx     *oto.Context
	reader     *varispeed
	mu         sync.Mutex
	player     *oto.Player
	onComplete func()
	started    bool
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func (n *otoNode) SetRate(rate float64) {
	n.reader.SetRate(rate)
}

func (n *otoNode) OnComplete(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onComplete = fn
}

func (n *otoNode) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		return fmt.Errorf("%w: node already started", audio.ErrEngine)
	}
	select {
	case <-n.stopCh:
		return fmt.Errorf("%w: node already stopped", audio.ErrEngine)
	default:
	}
	if err := n.otoCtx.Err(); err != nil {
		return fmt.Errorf("%w: oto context failed: %v", audio.ErrEngine, err)
	}

	n.player = n.otoCtx.NewPlayer(n.reader)
	n.player.Play()
	n.started = true

	go n.watch(n.player, n.onComplete)
	return nil
}

// watch fires the completion callback once the reader is drained and the
// player has flushed its buffer
func (n *otoNode) watch(player *oto.Player, fn func()) {
	ticker := time.NewTicker(completionPoll)
	defer ticker.Stop()

	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			if !n.reader.Drained() || player.IsPlaying() {
				continue
			}
			select {
			case <-n.stopCh:
				return
			default:
			}
			if fn != nil {
				fn()
			}
			return
		}
	}
}

func (n *otoNode) Stop() error {
	var err error
	n.stopOnce.Do(func() {
		close(n.stopCh)

		n.mu.Lock()
		player := n.player
		n.mu.Unlock()

		if player != nil {
			player.Pause()
			if closeErr := player.Close(); closeErr != nil {
				err = fmt.Errorf("%w: failed to close player: %v", audio.ErrEngine, closeErr)
			}
		}
	})
	return err
}
