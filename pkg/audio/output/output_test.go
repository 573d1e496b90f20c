// ABOUTME: Tests for engine construction
// ABOUTME: Tests backend selection and option validation without opening a device
package output

import (
	"errors"
	"testing"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

func TestNewBackends(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{BackendOto, false},
		{BackendMalgo, false},
		{"portaudio", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			eng, err := New(tt.backend, DefaultOptions())
			if tt.wantErr {
				if !errors.Is(err, audio.ErrInvalidArgument) {
					t.Errorf("New(%q) error = %v, want ErrInvalidArgument", tt.backend, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.backend, err)
			}
			// Contexts are created lazily
			if !eng.Suspended() {
				t.Errorf("New(%q) engine should start suspended", tt.backend)
			}
		})
	}
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := New(BackendOto, Options{SampleRate: 0, Channels: 1})
	if !errors.Is(err, audio.ErrInvalidArgument) {
		t.Errorf("New() error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewNodeRequiresResume(t *testing.T) {
	buf, err := audio.NewBuffer(24000, 1, []float32{0})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	for _, eng := range []Engine{NewOto(DefaultOptions()), NewMalgo(DefaultOptions())} {
		if _, err := eng.NewNode(buf); !errors.Is(err, audio.ErrEngine) {
			t.Errorf("NewNode() before Resume error = %v, want ErrEngine", err)
		}
	}
}

func TestCheckNodeFormat(t *testing.T) {
	stereo, err := audio.NewBuffer(24000, 2, []float32{0, 0})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	if err := checkNodeFormat(stereo, DefaultOptions()); !errors.Is(err, audio.ErrEngine) {
		t.Errorf("checkNodeFormat(stereo) error = %v, want ErrEngine", err)
	}
	if err := checkNodeFormat(nil, DefaultOptions()); !errors.Is(err, audio.ErrInvalidArgument) {
		t.Errorf("checkNodeFormat(nil) error = %v, want ErrInvalidArgument", err)
	}
}
