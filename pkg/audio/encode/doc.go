// ABOUTME: Audio encoder package for exporting normalized buffers
// ABOUTME: Provides Encoder interface and 16-bit PCM and WAV implementations
// Package encode provides audio encoders for downloadable output.
//
// Supports: raw 16-bit PCM payloads and canonical 44-byte-header WAV files.
//
// Samples are quantized with audio.SampleToInt16, so the output is
// byte-for-byte reproducible for a given buffer.
//
// Example:
//
//	data, err := encode.WAV(buf)
//	err = os.WriteFile("audio.wav", data, 0o644)
package encode
