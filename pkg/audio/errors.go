package audio

import "errors"

var (
	// ErrDecode reports malformed base64 input.
	ErrDecode = errors.New("decode error")
	// ErrMalformedAudio reports PCM or WAV data that does not frame into whole samples.
	ErrMalformedAudio = errors.New("malformed audio")
	// ErrInvalidArgument reports a caller contract violation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEngine reports a rendering engine that could not create or start playback.
	ErrEngine = errors.New("audio engine error")
)
