// ABOUTME: Malgo-based audio rendering engine
// ABOUTME: Uses miniaudio via malgo with one callback-driven device per node
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// Malgo engine implementation using malgo/miniaudio library
type Malgo struct {
	opts     Options
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
}

// NewMalgo creates a malgo engine; the context is created on first Resume
func NewMalgo(opts Options) Engine {
	return &Malgo{
		opts: opts,
	}
}

// Suspended reports whether the context still needs Resume
func (m *Malgo) Suspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.malgoCtx == nil
}

// Resume creates the malgo context on first use
func (m *Malgo) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to initialize malgo context: %v", audio.ErrEngine, err)
	}
	m.malgoCtx = ctx

	log.Info().
		Int("sample_rate", m.opts.SampleRate).
		Int("channels", m.opts.Channels).
		Msg("Audio output initialized (malgo)")
	return nil
}

// NewNode creates a device-backed node for buf
func (m *Malgo) NewNode(buf *audio.Buffer) (Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil, fmt.Errorf("%w: malgo context is not running", audio.ErrEngine)
	}
	if err := checkNodeFormat(buf, m.opts); err != nil {
		return nil, err
	}

	return &malgoNode{
		malgoCtx: m.malgoCtx,
		opts:     m.opts,
		reader:   newVarispeed(buf, m.opts.SampleRate),
		stopCh:   make(chan struct{}),
	}, nil
}

// Close releases the malgo context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil
	}
	if err := m.malgoCtx.Uninit(); err != nil {
		log.Warn().Err(err).Msg("malgo context uninit error")
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil
	return nil
}

// malgoNode plays one buffer through its own playback device
type malgoNode struct {
	malgoCtx *malgo.AllocatedContext
	opts     Options
	reader   *varispeed
	mu       sync.Mutex
	device   *malgo.Device
	started  bool
	stopCh   chan struct{}
	stopOnce sync.Once

	// cbMu guards callback state; the audio thread may run the first
	// data callback while Start still holds mu
	cbMu       sync.Mutex
	onComplete func()
	finished   bool
}

func (n *malgoNode) SetRate(rate float64) {
	n.reader.SetRate(rate)
}

func (n *malgoNode) OnComplete(fn func()) {
	n.cbMu.Lock()
	defer n.cbMu.Unlock()
	n.onComplete = fn
}

func (n *malgoNode) Start() error {
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

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(n.opts.Channels)
	deviceConfig.SampleRate = uint32(n.opts.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		n.dataCallback(pOutputSample, frameCount)
	}

	device, err := malgo.InitDevice(n.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to initialize playback device: %v", audio.ErrEngine, err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("%w: failed to start device: %v", audio.ErrEngine, err)
	}

	n.device = device
	n.started = true
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (n *malgoNode) dataCallback(pOutput []byte, frameCount uint32) {
	size := int(frameCount) * n.opts.Channels * 2
	if size > len(pOutput) {
		size = len(pOutput)
	}
	out := pOutput[:size]

	written := 0
	eof := false
	for written < len(out) {
		read, err := n.reader.Read(out[written:])
		written += read
		if err == io.EOF {
			eof = true
			break
		}
		if read == 0 {
			break
		}
	}

	// Zero-fill remaining on underrun
	for i := written; i < len(out); i++ {
		out[i] = 0
	}

	if eof {
		n.cbMu.Lock()
		fire := !n.finished
		n.finished = true
		fn := n.onComplete
		n.cbMu.Unlock()

		// Never call back into the owner from the audio thread
		if fire && fn != nil {
			go n.complete(fn)
		}
	}
}

func (n *malgoNode) complete(fn func()) {
	select {
	case <-n.stopCh:
		return
	default:
	}
	fn()
}

func (n *malgoNode) Stop() error {
	n.stopOnce.Do(func() {
		close(n.stopCh)

		n.mu.Lock()
		device := n.device
		n.device = nil
		n.mu.Unlock()

		if device != nil {
			if err := device.Stop(); err != nil {
				log.Warn().Err(err).Msg("malgo device stop error")
			}
			device.Uninit()
		}
	})
	return nil
}
