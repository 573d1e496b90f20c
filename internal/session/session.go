// ABOUTME: Speaker session tying speech generation, decoding, playback, and download
// ABOUTME: Keeps only the most recent generation's buffer
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/internal/metrics"
	"github.com/sawtlab/sawt-go/pkg/audio"
	"github.com/sawtlab/sawt-go/pkg/audio/decode"
	"github.com/sawtlab/sawt-go/pkg/audio/encode"
	"github.com/sawtlab/sawt-go/pkg/tts"
)

// FileName is the name downloads are saved under
const FileName = "audio.wav"

var (
	// ErrSuperseded is returned by a generation overtaken by a newer one
	ErrSuperseded = errors.New("generation superseded by a newer request")

	// ErrNoBuffer is returned when there is nothing to play or save
	ErrNoBuffer = errors.New("no audio generated yet")

	// ErrNoSynthesizer is returned by Generate on an offline session
	ErrNoSynthesizer = errors.New("speech service not configured")
)

// Synthesizer produces a base64 PCM payload for a request
type Synthesizer interface {
	Synthesize(ctx context.Context, req tts.Request) (string, error)
}

// Player is the playback controller surface the session drives
type Player interface {
	Play(buf *audio.Buffer, rate float64) error
	Stop() error
	IsPlaying() bool
	Close() error
}

// Config holds session collaborators. Synthesizer may be nil for
// offline use with Load.
type Config struct {
	Synthesizer Synthesizer
	Player      Player
	Saver       Saver
	Metrics     *metrics.Metrics
}

// Session owns the current buffer for one speaker panel
type Session struct {
	synth   Synthesizer
	player  Player
	saver   Saver
	metrics *metrics.Metrics

	mu  sync.Mutex
	seq uint64
	buf *audio.Buffer
}

// New creates a session
func New(cfg Config) *Session {
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}
	return &Session{
		synth:   cfg.Synthesizer,
		player:  cfg.Player,
		saver:   cfg.Saver,
		metrics: m,
	}
}

// Generate stops playback, drops the current buffer, and synthesizes a new
// one. If another Generate or Load starts before this one finishes, the
// result is discarded and ErrSuperseded returned.
func (s *Session) Generate(ctx context.Context, req tts.Request) (*audio.Buffer, error) {
	if s.synth == nil {
		return nil, ErrNoSynthesizer
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := log.With().Str("request_id", req.ID).Logger()

	s.stopPlayback()
	seq := s.begin()

	start := time.Now()
	logger.Info().
		Str("voice", string(req.Voice)).
		Str("style", string(req.Style)).
		Int("text_len", len([]rune(req.Text))).
		Msg("Generating speech")

	payload, err := s.synth.Synthesize(ctx, req)
	if err != nil {
		if !s.current(seq) {
			return nil, s.superseded(logger, start)
		}
		s.metrics.ObserveGeneration(metrics.ResultError, time.Since(start))
		return nil, fmt.Errorf("speech generation failed: %w", err)
	}

	buf, err := decode.Base64PCM(payload)
	if err != nil {
		s.metrics.DecodeErrors.Inc()
		if !s.current(seq) {
			return nil, s.superseded(logger, start)
		}
		s.metrics.ObserveGeneration(metrics.ResultError, time.Since(start))
		return nil, err
	}

	if !s.commit(seq, buf) {
		return nil, s.superseded(logger, start)
	}

	s.metrics.ObserveGeneration(metrics.ResultOK, time.Since(start))
	s.metrics.AudioDuration.Observe(buf.Duration().Seconds())
	logger.Info().
		Int("frames", buf.FrameCount()).
		Dur("audio", buf.Duration()).
		Dur("elapsed", time.Since(start)).
		Msg("Speech ready")
	return buf, nil
}

// Load installs a buffer from another source, superseding any
// generation in flight
func (s *Session) Load(buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	s.stopPlayback()
	seq := s.begin()
	s.commit(seq, buf)
	s.metrics.AudioDuration.Observe(buf.Duration().Seconds())
	return nil
}

// Buffer returns the current buffer, or nil
func (s *Session) Buffer() *audio.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Play starts the current buffer at rate
func (s *Session) Play(rate float64) error {
	buf := s.Buffer()
	if buf == nil {
		return ErrNoBuffer
	}
	if err := s.player.Play(buf, rate); err != nil {
		return err
	}
	s.metrics.PlaybacksStarted.Inc()
	return nil
}

// Stop halts playback
func (s *Session) Stop() error {
	return s.player.Stop()
}

// IsPlaying reports whether playback is active
func (s *Session) IsPlaying() bool {
	return s.player.IsPlaying()
}

// Toggle stops when playing and plays otherwise. It returns the new
// playing state.
func (s *Session) Toggle(rate float64) (bool, error) {
	if s.player.IsPlaying() {
		return false, s.Stop()
	}
	if err := s.Play(rate); err != nil {
		return false, err
	}
	return true, nil
}

// Download encodes the current buffer as WAV and saves it
func (s *Session) Download() (string, error) {
	buf := s.Buffer()
	if buf == nil {
		return "", ErrNoBuffer
	}

	data, err := encode.WAV(buf)
	if err != nil {
		s.metrics.Downloads.WithLabelValues(metrics.ResultError).Inc()
		return "", err
	}

	path, err := s.saver.Save(FileName, encode.MIMEType, data)
	if err != nil {
		s.metrics.Downloads.WithLabelValues(metrics.ResultError).Inc()
		return "", fmt.Errorf("failed to save %s: %w", FileName, err)
	}

	s.metrics.Downloads.WithLabelValues(metrics.ResultOK).Inc()
	s.metrics.WAVBytes.Observe(float64(len(data)))
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Audio saved")
	return path, nil
}

// Close stops playback and releases the controller
func (s *Session) Close() error {
	return s.player.Close()
}

func (s *Session) stopPlayback() {
	if err := s.player.Stop(); err != nil {
		log.Warn().Err(err).Msg("Failed to stop playback")
	}
}

// begin starts a new generation and clears the buffer
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.buf = nil
	return s.seq
}

func (s *Session) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}

// commit installs buf only if seq is still the latest generation
func (s *Session) commit(seq uint64, buf *audio.Buffer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		return false
	}
	s.buf = buf
	return true
}

func (s *Session) superseded(logger zerolog.Logger, start time.Time) error {
	s.metrics.ObserveGeneration(metrics.ResultSuperseded, time.Since(start))
	logger.Debug().Msg("Discarding superseded generation")
	return ErrSuperseded
}
