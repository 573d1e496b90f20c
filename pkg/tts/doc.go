// ABOUTME: Speech service package
// ABOUTME: Voices, styles, prompts, and a Gemini REST client returning base64 PCM
// Package tts talks to the remote speech-generation service.
//
// The service returns base64-encoded raw PCM (signed 16-bit little-endian,
// mono, 24 kHz). Decoding that payload is the job of package decode; this
// package only produces it.
//
// Example:
//
//	client, err := tts.NewClient(tts.Config{APIKey: key})
//	payload, err := client.Synthesize(ctx, tts.Request{
//		Text:  "مرحبا",
//		Voice: tts.VoiceKarim,
//		Style: tts.StyleNews,
//	})
//	buf, err := decode.Base64PCM(payload)
package tts
