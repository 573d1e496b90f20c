// ABOUTME: Tests for the variable-speed PCM reader
// ABOUTME: Tests rate handling, interpolation, and end-of-buffer behavior
package output

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// readAll drains v in small chunks and returns the decoded int16 samples
func readAll(t *testing.T, v *varispeed) []int16 {
	t.Helper()

	var out []int16
	chunk := make([]byte, 64)
	for i := 0; i < 100000; i++ {
		n, err := v.Read(chunk)
		for j := 0; j+1 < n; j += 2 {
			out = append(out, int16(binary.LittleEndian.Uint16(chunk[j:])))
		}
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
	t.Fatal("reader never reached EOF")
	return nil
}

func rampBuffer(t *testing.T, rate, channels, frames int) *audio.Buffer {
	t.Helper()

	samples := make([]float32, frames*channels)
	for i := range samples {
		samples[i] = float32(i%100) / 200
	}
	buf, err := audio.NewBuffer(rate, channels, samples)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	return buf
}

func TestVarispeedIdentity(t *testing.T) {
	buf := rampBuffer(t, 24000, 1, 500)
	v := newVarispeed(buf, 24000)

	got := readAll(t, v)
	if len(got) != 500 {
		t.Fatalf("got %d samples, want 500", len(got))
	}
	for i, s := range buf.Samples {
		if got[i] != audio.SampleToInt16(s) {
			t.Fatalf("sample %d = %d, want %d", i, got[i], audio.SampleToInt16(s))
		}
	}
	if !v.Drained() {
		t.Error("Drained() = false after EOF")
	}
}

func TestVarispeedRates(t *testing.T) {
	tests := []struct {
		name       string
		rate       float64
		outputRate int
		wantFrames int
	}{
		{"double speed", 2.0, 24000, 500},
		{"half speed", 0.5, 24000, 2000},
		{"upsampled output", 1.0, 48000, 2000},
		{"upsampled at double speed", 2.0, 48000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := rampBuffer(t, 24000, 1, 1000)
			v := newVarispeed(buf, tt.outputRate)
			v.SetRate(tt.rate)

			got := readAll(t, v)
			if len(got) != tt.wantFrames {
				t.Errorf("got %d frames, want %d", len(got), tt.wantFrames)
			}
		})
	}
}

func TestVarispeedInterpolates(t *testing.T) {
	buf, err := audio.NewBuffer(24000, 1, []float32{0, 0.5})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	v := newVarispeed(buf, 24000)
	v.SetRate(0.5)

	got := readAll(t, v)
	want := []int16{0, audio.SampleToInt16(0.25), 16384, 16384}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVarispeedStereoWholeFrames(t *testing.T) {
	buf := rampBuffer(t, 24000, 2, 10)
	v := newVarispeed(buf, 24000)

	// Three bytes fits no whole stereo frame
	n, err := v.Read(make([]byte, 3))
	if n != 0 || err != nil {
		t.Errorf("Read(3 bytes) = %d, %v; want 0, nil", n, err)
	}

	got := readAll(t, v)
	if len(got) != 20 {
		t.Errorf("got %d samples, want 20", len(got))
	}
}

func TestVarispeedEmptyBuffer(t *testing.T) {
	buf, err := audio.NewBuffer(24000, 1, nil)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	v := newVarispeed(buf, 24000)

	if !v.Drained() {
		t.Error("empty buffer should report drained")
	}
	if _, err := v.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
}
