// ABOUTME: Base64 transport decoder
// ABOUTME: Decodes the speech service's base64 text into raw bytes
package decode

import (
	"encoding/base64"
	"fmt"

	"github.com/sawtlab/sawt-go/pkg/audio"
)

// Base64 decodes standard-alphabet, padded base64.
// Malformed alphabet, padding or truncated groups return audio.ErrDecode.
func Base64(input string) ([]byte, error) {
	data, err := base64.StdEncoding.Strict().DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDecode, err)
	}
	return data, nil
}

// Base64PCM decodes a speech service payload in audio.InputFormat
func Base64PCM(payload string) (*audio.Buffer, error) {
	data, err := Base64(payload)
	if err != nil {
		return nil, err
	}
	return PCM(data, audio.InputFormat.SampleRate, audio.InputFormat.Channels)
}
