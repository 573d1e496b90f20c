// ABOUTME: PCM audio encoder
// ABOUTME: Encodes normalized float samples to 16-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// PCMEncoder encodes raw 16-bit PCM without a container
type PCMEncoder struct{}

// NewPCM creates a new PCM encoder
func NewPCM() Encoder {
	return &PCMEncoder{}
}

// Encode converts the buffer samples to PCM bytes
func (e *PCMEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return PCM16(buf.Samples), nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// PCM16 quantizes samples in order, 2 bytes each
func PCM16(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	PutPCM16(output, samples)
	return output
}

// PutPCM16 writes samples into dst, which must hold 2 bytes per sample
func PutPCM16(dst []byte, samples []float32) {
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(audio.SampleToInt16(sample)))
	}
}
