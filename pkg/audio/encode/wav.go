// ABOUTME: WAV container encoder
// ABOUTME: Writes a canonical RIFF/WAVE header followed by 16-bit PCM
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

const (
	// WAVHeaderSize is the size of the canonical PCM header
	WAVHeaderSize = 44

	// MIMEType is the media type of encoded files
	MIMEType = "audio/wav"

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
)

// WAVEncoder encodes buffers as WAV files
type WAVEncoder struct{}

// NewWAV creates a new WAV encoder
func NewWAV() Encoder {
	return &WAVEncoder{}
}

// Encode converts the buffer to WAV bytes
func (e *WAVEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	return WAV(buf)
}

// Close releases resources
func (e *WAVEncoder) Close() error {
	return nil
}

// WAV serializes buf as a 16-bit linear PCM WAV file.
// Output is exactly WAVHeaderSize + frames*channels*2 bytes.
func WAV(buf *audio.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	channels := buf.Format.Channels
	sampleRate := buf.Format.SampleRate
	dataSize := uint64(len(buf.Samples)) * bytesPerSample
	byteRate := uint64(sampleRate) * uint64(channels) * bytesPerSample
	blockAlign := channels * bytesPerSample

	if dataSize+WAVHeaderSize-8 > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes of audio exceed the WAV size limit", audio.ErrInvalidArgument, dataSize)
	}
	if byteRate > math.MaxUint32 || blockAlign > math.MaxUint16 {
		return nil, fmt.Errorf("%w: format %dHz/%dch cannot be described in a WAV header",
			audio.ErrInvalidArgument, sampleRate, channels)
	}

	output := make([]byte, WAVHeaderSize+int(dataSize))

	// RIFF header (12 bytes)
	copy(output[0:4], "RIFF")
	binary.LittleEndian.PutUint32(output[4:8], uint32(len(output)-8))
	copy(output[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(output[12:16], "fmt ")
	binary.LittleEndian.PutUint32(output[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(output[20:22], 1)  // linear PCM
	binary.LittleEndian.PutUint16(output[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(output[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(output[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(output[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(output[34:36], bitsPerSample)

	// data chunk (8 bytes + payload)
	copy(output[36:40], "data")
	binary.LittleEndian.PutUint32(output[40:44], uint32(dataSize))

	// Samples are already interleaved frame-major
	PutPCM16(output[WAVHeaderSize:], buf.Samples)

	return output, nil
}
