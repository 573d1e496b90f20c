// ABOUTME: Tests for audio types
// ABOUTME: Tests sample quantizers and buffer validation
package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half positive", 16384, 0.5},
		{"half negative", -16384, -0.5},
		{"min", -32768, -1.0},
		{"max", 32767, 32767.0 / 32768.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half positive", 0.5, 16384},
		{"half negative", -0.5, -16384},
		{"full positive", 1.0, 32767},
		{"full negative", -1.0, -32768},
		{"clamp positive", 1.7, 32767},
		{"clamp negative", -3.0, -32768},
		{"smallest negative step", -1.0 / 32768.0, -1},
		{"nan", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTripInt16(t *testing.T) {
	// Negative samples survive exactly; positives may move by one step
	// because the two directions use different scales.
	samples := []int16{0, -1, -100, -1000, -16384, -32768, 1, 100, 1000, 16384, 32767}

	for _, original := range samples {
		result := SampleToInt16(SampleFromInt16(original))
		diff := int(result) - int(original)
		if original < 0 && diff != 0 {
			t.Errorf("round-trip failed: %d -> %d", original, result)
		}
		if diff < -1 || diff > 1 {
			t.Errorf("round-trip drifted more than one step: %d -> %d", original, result)
		}
	}
}

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		channels   int
		samples    []float32
		wantErr    bool
	}{
		{"mono", 24000, 1, []float32{0.1, 0.2, 0.3}, false},
		{"stereo", 48000, 2, []float32{0.1, 0.2, 0.3, 0.4}, false},
		{"empty", 24000, 1, nil, false},
		{"zero rate", 0, 1, nil, true},
		{"negative channels", 24000, -1, nil, true},
		{"ragged stereo", 48000, 2, []float32{0.1, 0.2, 0.3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewBuffer(tt.sampleRate, tt.channels, tt.samples)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.FrameCount()*tt.channels != len(tt.samples) {
				t.Errorf("frame count %d does not match %d samples", buf.FrameCount(), len(tt.samples))
			}
		})
	}
}

func TestBufferDuration(t *testing.T) {
	buf, err := NewBuffer(24000, 1, make([]float32, 12000))
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	if buf.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", buf.Duration())
	}
}

func TestValidateNil(t *testing.T) {
	var buf *Buffer
	if err := buf.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil buffer, got %v", err)
	}
}
