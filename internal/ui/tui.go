// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the speaker panel
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sawtlab/sawt-go/pkg/tts"
)

// Options seeds the panel
type Options struct {
	Text     string
	Voice    tts.Voice
	Style    tts.Style
	Speed    float64
	Speaker  Speaker
	Rewriter Rewriter // nil disables rewriting
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:      ctx,
		speaker:  opts.Speaker,
		rewriter: opts.Rewriter,
		text:     opts.Text,
		speed:    clampSpeed(opts.Speed),
	}
	for i, v := range tts.Voices() {
		if v == opts.Voice {
			m.voiceIdx = i
		}
	}
	for i, s := range tts.Styles() {
		if s == opts.Style {
			m.styleIdx = i
		}
	}
	return m
}

// WithAudio marks a preloaded buffer of length d as ready to play
func (m Model) WithAudio(d time.Duration) Model {
	m.hasAudio = true
	m.duration = d
	m.status = "Audio loaded"
	return m
}

// Run creates the TUI program; the caller runs it
func Run(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}
