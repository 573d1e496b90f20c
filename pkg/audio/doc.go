// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types, sample quantizers and error kinds
// Package audio provides the in-memory audio representation used by sawt.
//
// This package defines core types used throughout the library:
//   - Format: Describes audio stream format (sample rate, channels, bit depth)
//   - Buffer: Normalized float samples, interleaved frame-major
//
// It also provides the 16-bit quantizers shared by the decoders, the WAV
// encoder and the playback engines:
//   - SampleFromInt16 divides by 32768
//   - SampleToInt16 clamps, then scales negatives by 32768 and the rest by 32767
//
// The two scales are not exact inverses. A decode/encode round trip is stable
// for typical signal content and bit-exact with existing WAV output.
//
// Example:
//
//	buf, err := audio.NewBuffer(24000, 1, []float32{0.5, -0.5})
//	sample16 := audio.SampleToInt16(buf.Samples[0]) // 16384
package audio
