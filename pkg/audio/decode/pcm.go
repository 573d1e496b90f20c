// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-bit little-endian PCM into normalized float samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// PCMDecoder decodes PCM audio in a fixed format
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("%w: unsupported bit depth: %d (supported: 16)", audio.ErrInvalidArgument, format.BitDepth)
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("%w: invalid format %dHz/%dch", audio.ErrInvalidArgument, format.SampleRate, format.Channels)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// Decode converts PCM bytes to a buffer
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	return PCM(data, d.format.SampleRate, d.format.Channels)
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// PCM decodes signed 16-bit little-endian samples.
// The length must be a whole number of frames; a trailing partial sample is
// an upstream corruption and returns audio.ErrMalformedAudio.
// sampleRate and channels are carried into the buffer as given.
func PCM(data []byte, sampleRate, channels int) (*audio.Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid format %dHz/%dch", audio.ErrInvalidArgument, sampleRate, channels)
	}

	frameSize := 2 * channels
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte frame",
			audio.ErrMalformedAudio, len(data), frameSize)
	}

	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return &audio.Buffer{
		Format: audio.Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}
