// ABOUTME: Rendering for the speaker panel
// ABOUTME: Draws the boxed panel in the same layout as the stream player
package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// panelWidth is the usable width between the borders
const panelWidth = 52

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderText()
	s += m.renderControls()
	s += m.renderStatus()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar
func (m Model) renderHeader() string {
	title := "┌─ Sawt Speaker "
	return title + strings.Repeat("─", panelWidth+3-utf8.RuneCountInString(title)) + "┐\n"
}

// renderText renders the text to speak
func (m Model) renderText() string {
	text := strings.Join(strings.Fields(m.text), " ")
	if text == "" {
		text = "(no text)"
	}
	return line("Text:  " + truncate(text, panelWidth-7))
}

// renderControls renders voice, style, and speed selection
func (m Model) renderControls() string {
	v, st := m.Voice(), m.Style()

	s := separator()
	s += line(fmt.Sprintf("Voice: %s (%s)", v.Name(), v.APIName()))
	s += line(fmt.Sprintf("Style: %s", st.Name()))
	s += line(fmt.Sprintf("Speed: [%s] %.1fx", renderBar(m.speed-0.5, 1.5, 15), m.speed))
	return s
}

// renderStatus renders generation and playback state
func (m Model) renderStatus() string {
	state := "No audio"
	switch {
	case m.generating:
		state = "Generating..."
	case m.rewriting:
		state = "Rewriting..."
	case m.playing:
		state = fmt.Sprintf("▶ Playing (%s)", m.duration.Round(100*time.Millisecond))
	case m.hasAudio:
		state = fmt.Sprintf("■ Ready (%s)", m.duration.Round(100*time.Millisecond))
	}

	s := separator()
	s += line("State: " + state)
	if m.err != "" {
		s += line("Error: " + truncate(m.err, panelWidth-7))
	} else if m.status != "" {
		s += line(truncate(m.status, panelWidth))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	s := separator()
	s += line("g:Generate  space:Play/Stop  d:Download  r:Rewrite")
	s += line("v/V:Voice  s/S:Style  -/+:Speed  q:Quit")
	s += "└" + strings.Repeat("─", panelWidth+2) + "┘\n"
	return s
}

func separator() string {
	return "├" + strings.Repeat("─", panelWidth+2) + "┤\n"
}

// line pads one row of the panel
func line(s string) string {
	pad := panelWidth - utf8.RuneCountInString(s)
	if pad < 0 {
		pad = 0
	}
	return "│ " + s + strings.Repeat(" ", pad) + " │\n"
}

// Utility functions
func renderBar(value, max float64, width int) string {
	filled := int(value / max * float64(width))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	r := []rune(s)
	return string(r[:length-3]) + "..."
}
