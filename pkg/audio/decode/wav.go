// ABOUTME: WAV file decoder
// ABOUTME: Reloads 16-bit linear PCM WAV files into normalized buffers
package decode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// WAV decodes a 16-bit linear PCM WAV container
func WAV(r io.ReadSeeker) (*audio.Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", audio.ErrMalformedAudio)
	}
	if d.WavAudioFormat != wavFormatPCM || d.BitDepth != 16 {
		return nil, fmt.Errorf("%w: only 16-bit linear PCM supported (format %d, %d-bit)",
			audio.ErrMalformedAudio, d.WavAudioFormat, d.BitDepth)
	}

	var pcm *goaudio.IntBuffer
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PCM data: %v", audio.ErrMalformedAudio, err)
	}

	channels := int(d.NumChans)
	if channels <= 0 || len(pcm.Data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not frame into %d channels",
			audio.ErrMalformedAudio, len(pcm.Data), channels)
	}

	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = audio.SampleFromInt16(int16(v))
	}

	return audio.NewBuffer(int(d.SampleRate), channels, samples)
}
