// ABOUTME: Bubbletea model for the speaker panel
// ABOUTME: Defines panel state, key handling, and async command results
package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sawtlab/sawt-go/internal/session"
	"github.com/sawtlab/sawt-go/pkg/audio"
	"github.com/sawtlab/sawt-go/pkg/playback"
	"github.com/sawtlab/sawt-go/pkg/tts"
)

// speedStep matches the original slider granularity
const speedStep = 0.1

// Speaker is the session surface the panel drives
type Speaker interface {
	Generate(ctx context.Context, req tts.Request) (*audio.Buffer, error)
	Toggle(rate float64) (bool, error)
	Stop() error
	Download() (string, error)
}

// Rewriter restates text in a style
type Rewriter interface {
	Rewrite(ctx context.Context, text string, style tts.Style) (string, error)
}

// Model represents the TUI state
type Model struct {
	ctx      context.Context
	speaker  Speaker
	rewriter Rewriter

	// Input
	text     string
	voiceIdx int
	styleIdx int
	speed    float64

	// Work in flight
	generating bool
	rewriting  bool

	// Audio
	hasAudio bool
	duration time.Duration
	playing  bool

	// Feedback
	status string
	err    string

	// Dimensions
	width  int
	height int
}

// GeneratedMsg reports a finished generation
type GeneratedMsg struct {
	Buffer *audio.Buffer
	Err    error
}

// RewrittenMsg reports a finished rewrite
type RewrittenMsg struct {
	Text string
	Err  error
}

// ToggledMsg reports the result of play/stop
type ToggledMsg struct {
	Playing bool
	Err     error
}

// SavedMsg reports a finished download
type SavedMsg struct {
	Path string
	Err  error
}

// PlaybackMsg mirrors controller state changes, including natural completion
type PlaybackMsg struct {
	State playback.State
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case GeneratedMsg:
		m.applyGenerated(msg)
	case RewrittenMsg:
		m.rewriting = false
		if msg.Err != nil {
			m.err = fmt.Sprintf("Rewrite failed: %v", msg.Err)
			break
		}
		m.text = msg.Text
		m.hasAudio = false
		m.status = "Text rewritten"
	case ToggledMsg:
		if msg.Err != nil {
			m.err = fmt.Sprintf("Playback failed: %v", msg.Err)
			m.playing = false
			break
		}
		m.playing = msg.Playing
	case PlaybackMsg:
		m.playing = msg.State == playback.Playing
	case SavedMsg:
		if msg.Err != nil {
			m.err = fmt.Sprintf("Download failed: %v", msg.Err)
			break
		}
		m.status = "Saved " + msg.Path
	}

	return m, nil
}

func (m *Model) applyGenerated(msg GeneratedMsg) {
	if errors.Is(msg.Err, session.ErrSuperseded) {
		return
	}
	m.generating = false
	if msg.Err != nil {
		m.err = fmt.Sprintf("Generation failed: %v", msg.Err)
		return
	}
	m.hasAudio = true
	m.duration = msg.Buffer.Duration()
	m.status = "Audio ready"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Sequence(m.stopCmd(), tea.Quit)
	case "v":
		m.voiceIdx = (m.voiceIdx + 1) % len(tts.Voices())
	case "V":
		m.voiceIdx = (m.voiceIdx + len(tts.Voices()) - 1) % len(tts.Voices())
	case "s":
		m.styleIdx = (m.styleIdx + 1) % len(tts.Styles())
	case "S":
		m.styleIdx = (m.styleIdx + len(tts.Styles()) - 1) % len(tts.Styles())
	case "+", "=", "right":
		m.speed = clampSpeed(m.speed + speedStep)
	case "-", "_", "left":
		m.speed = clampSpeed(m.speed - speedStep)
	case "g", "enter":
		return m.startGenerate()
	case "r":
		return m.startRewrite()
	case " ", "p":
		if !m.hasAudio {
			return m, nil
		}
		m.err = ""
		return m, m.toggleCmd()
	case "d":
		if !m.hasAudio {
			return m, nil
		}
		m.err = ""
		return m, m.downloadCmd()
	}

	return m, nil
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.generating || strings.TrimSpace(m.text) == "" {
		return m, nil
	}
	m.generating = true
	m.hasAudio = false
	m.playing = false
	m.err = ""
	m.status = ""

	req := tts.Request{Text: m.text, Voice: m.Voice(), Style: m.Style()}
	ctx, speaker := m.ctx, m.speaker
	return m, func() tea.Msg {
		buf, err := speaker.Generate(ctx, req)
		return GeneratedMsg{Buffer: buf, Err: err}
	}
}

func (m Model) startRewrite() (tea.Model, tea.Cmd) {
	if m.rewriter == nil || m.rewriting || m.generating || strings.TrimSpace(m.text) == "" {
		return m, nil
	}
	m.rewriting = true
	m.err = ""

	text, style := m.text, m.Style()
	ctx, rewriter := m.ctx, m.rewriter
	return m, func() tea.Msg {
		out, err := rewriter.Rewrite(ctx, text, style)
		return RewrittenMsg{Text: out, Err: err}
	}
}

func (m Model) toggleCmd() tea.Cmd {
	speaker, speed := m.speaker, m.speed
	return func() tea.Msg {
		playing, err := speaker.Toggle(speed)
		return ToggledMsg{Playing: playing, Err: err}
	}
}

func (m Model) downloadCmd() tea.Cmd {
	speaker := m.speaker
	return func() tea.Msg {
		path, err := speaker.Download()
		return SavedMsg{Path: path, Err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	speaker := m.speaker
	return func() tea.Msg {
		_ = speaker.Stop()
		return nil
	}
}

// Voice returns the selected voice
func (m Model) Voice() tts.Voice {
	return tts.Voices()[m.voiceIdx]
}

// Style returns the selected style
func (m Model) Style() tts.Style {
	return tts.Styles()[m.styleIdx]
}

// Speed returns the selected playback rate
func (m Model) Speed() float64 {
	return m.speed
}

// clampSpeed keeps speed on the 0.1 grid within the playback bounds
func clampSpeed(v float64) float64 {
	v = math.Round(v*10) / 10
	if v < playback.MinRate {
		return playback.MinRate
	}
	if v > playback.MaxRate {
		return playback.MaxRate
	}
	return v
}
