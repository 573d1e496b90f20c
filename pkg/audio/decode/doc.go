// ABOUTME: Audio decoder package for the speech service payload
// ABOUTME: Provides base64, raw PCM and WAV decoding into audio.Buffer
// Package decode turns speech service payloads into audio buffers.
//
// Supports: base64 transport text, raw 16-bit little-endian PCM, 16-bit WAV.
//
// Every decoder outputs float samples normalized by 32768 and wraps its
// failures in audio.ErrDecode or audio.ErrMalformedAudio.
//
// Example:
//
//	raw, err := decode.Base64(payload)
//	buf, err := decode.PCM(raw, 24000, 1)
//
// or in one step for the service's fixed format:
//
//	buf, err := decode.Base64PCM(payload)
package decode
