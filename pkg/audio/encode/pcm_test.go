// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 16-bit quantization and the decode round trip
package encode

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/sawtlab/sawt-go/pkg/audio"
	"github.com/sawtlab/sawt-go/pkg/audio/decode"
)

func TestPCMEncoder_Encode(t *testing.T) {
	encoder := NewPCM()
	defer encoder.Close()

	samples := []float32{
		0,    // silence
		1.0,  // max positive
		-1.0, // max negative
		0.5,
		-0.5,
		2.0, // clipped
	}
	buf, err := audio.NewBuffer(24000, 1, samples)
	if err != nil {
		t.Fatalf("NewBuffer() failed: %v", err)
	}

	output, err := encoder.Encode(buf)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	// Check output size: 2 bytes per sample for 16-bit
	if len(output) != len(samples)*2 {
		t.Errorf("Encode() output size = %d, want %d", len(output), len(samples)*2)
	}

	want := []int16{0, 32767, -32768, 16384, -16384, 32767}
	for i, expected := range want {
		actual := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if actual != expected {
			t.Errorf("Sample %d: got %d, want %d", i, actual, expected)
		}
	}
}

func TestPCMEncoder_InvalidBuffer(t *testing.T) {
	encoder := NewPCM()

	_, err := encoder.Encode(&audio.Buffer{Format: audio.Format{SampleRate: 24000, Channels: 2}, Samples: []float32{0}})
	if !errors.Is(err, audio.ErrInvalidArgument) {
		t.Errorf("Encode() error = %v, want ErrInvalidArgument", err)
	}
}

func TestPCMRoundTripBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, channels := range []int{1, 2} {
		samples := make([]float32, 4096*channels)
		for i := range samples {
			samples[i] = float32(rng.Float64()*2 - 1)
		}
		// Edges of the range
		samples[0], samples[1] = -1, 1

		buf, err := audio.NewBuffer(24000, channels, samples)
		if err != nil {
			t.Fatalf("NewBuffer() failed: %v", err)
		}

		wavBytes, err := WAV(buf)
		if err != nil {
			t.Fatalf("WAV() failed: %v", err)
		}

		decoded, err := decode.PCM(wavBytes[WAVHeaderSize:], buf.Format.SampleRate, buf.Format.Channels)
		if err != nil {
			t.Fatalf("decode.PCM() failed: %v", err)
		}

		if len(decoded.Samples) != len(samples) {
			t.Fatalf("decoded %d samples, want %d", len(decoded.Samples), len(samples))
		}

		for i, v := range samples {
			diff := math.Abs(float64(decoded.Samples[i]) - float64(v))
			// Negative values share the 32768 scale in both directions and
			// land within half a step. Non-negative values pick up the
			// 32767/32768 scale mismatch on top of rounding.
			limit := 1.0 / 32768
			if v >= 0 {
				limit = 1.5 / 32767
			}
			if diff > limit {
				t.Errorf("channels=%d sample %d: %v decoded as %v (diff %g > %g)",
					channels, i, v, decoded.Samples[i], diff, limit)
			}
		}
	}
}
