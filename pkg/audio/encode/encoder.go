// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for buffer-to-bytes audio encoders
package encode

import "github.com/sawtlab/sawt-go/pkg/audio"

// Encoder encodes a normalized buffer into bytes
type Encoder interface {
	// Encode converts the buffer to encoded audio data
	Encode(buf *audio.Buffer) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
