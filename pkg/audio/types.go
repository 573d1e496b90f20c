// ABOUTME: Audio type definitions
// ABOUTME: Defines the sample format, normalized sample buffers and 16-bit quantizers
package audio

import (
	"fmt"
	"math"
	"time"
)

const (
	// 16-bit audio range constants
	Max16Bit = 32767  // 2^15 - 1
	Min16Bit = -32768 // -2^15
)

// InputFormat is the fixed format of the speech service payload:
// raw signed 16-bit little-endian PCM, mono, 24 kHz.
var InputFormat = Format{
	SampleRate: 24000,
	Channels:   1,
	BitDepth:   16,
}

// Format describes audio stream format
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds normalized audio samples in [-1.0, 1.0].
// Samples are interleaved frame-major: all channels of frame 0, then frame 1.
// A Buffer is never modified after it is created.
type Buffer struct {
	Format  Format
	Samples []float32
}

// NewBuffer creates a validated buffer
func NewBuffer(sampleRate, channels int, samples []float32) (*Buffer, error) {
	b := &Buffer{
		Format: Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the format and that samples hold whole frames
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if b.Format.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidArgument, b.Format.SampleRate)
	}
	if b.Format.Channels <= 0 {
		return fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidArgument, b.Format.Channels)
	}
	if len(b.Samples)%b.Format.Channels != 0 {
		return fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrInvalidArgument, len(b.Samples), b.Format.Channels)
	}
	return nil
}

// FrameCount returns the number of time steps in the buffer
func (b *Buffer) FrameCount() int {
	if b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length at 1x speed
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.FrameCount()) * time.Second / time.Duration(b.Format.SampleRate)
}

// SampleFromInt16 normalizes a 16-bit sample by 32768.
// The result lies in [-1.0, 0.999969]; the divisor deliberately differs from
// the 32767 positive scale of SampleToInt16.
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 quantizes a normalized sample to 16 bits.
// Values are clamped to [-1, 1]; negatives scale by 32768, the rest by 32767,
// rounding to the nearest integer.
func SampleToInt16(sample float32) int16 {
	s := float64(sample)
	if math.IsNaN(s) {
		return 0
	}
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}

	if s < 0 {
		return int16(math.Round(s * 32768.0))
	}
	return int16(math.Round(s * 32767.0))
}
