// ABOUTME: Variable-speed PCM reader feeding the playback backends
// ABOUTME: Steps through a buffer at rate x source/output frames with linear interpolation
package output

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// varispeed renders a buffer as 16-bit little-endian PCM at the output rate.
// The buffer itself is never modified.
type varispeed struct {
	mu       sync.Mutex
	samples  []float32
	channels int
	frames   int
	ratio    float64 // source frames per output frame at 1x
	step     float64
	position float64
	drained  bool
}

func newVarispeed(buf *audio.Buffer, outputRate int) *varispeed {
	ratio := float64(buf.Format.SampleRate) / float64(outputRate)
	return &varispeed{
		samples:  buf.Samples,
		channels: buf.Format.Channels,
		frames:   buf.FrameCount(),
		ratio:    ratio,
		step:     ratio,
	}
}

// SetRate applies a speed multiplier
func (v *varispeed) SetRate(rate float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.step = v.ratio * rate
}

// Read fills p with whole output frames
func (v *varispeed) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	frameBytes := 2 * v.channels
	n := 0
	for n+frameBytes <= len(p) {
		inputIdx := int(v.position)
		if inputIdx >= v.frames {
			v.drained = true
			break
		}

		// Linear interpolation factor
		frac := v.position - float64(inputIdx)
		nextIdx := inputIdx + 1
		if nextIdx >= v.frames {
			nextIdx = inputIdx
		}

		for ch := 0; ch < v.channels; ch++ {
			sample1 := v.samples[inputIdx*v.channels+ch]
			sample2 := v.samples[nextIdx*v.channels+ch]
			interpolated := float64(sample1)*(1.0-frac) + float64(sample2)*frac
			binary.LittleEndian.PutUint16(p[n:], uint16(audio.SampleToInt16(float32(interpolated))))
			n += 2
		}

		v.position += v.step
	}

	if n == 0 && v.drained {
		return 0, io.EOF
	}
	return n, nil
}

// Drained reports whether every frame has been handed out
func (v *varispeed) Drained() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drained || int(v.position) >= v.frames
}
