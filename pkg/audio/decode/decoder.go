// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for byte-oriented audio decoders
package decode

import "github.com/sawtlab/sawt-go/pkg/audio"

// Decoder decodes raw audio bytes into a normalized sample buffer
type Decoder interface {
	// Decode converts the whole payload into a buffer
	Decode(data []byte) (*audio.Buffer, error)

	// Close releases decoder resources
	Close() error
}
