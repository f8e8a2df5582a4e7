// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pratik0310/Maverick-Ai/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.SendButton).
			Bold(true)

	replyLabelStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.SendButton).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Placeholder)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.DarkPalette.Error).
			Bold(true)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Renderer turns replies into terminal output. A disabled renderer passes
// text through unchanged.
type Renderer struct {
	r *glamour.TermRenderer
}

// NewRenderer creates a renderer for the glamour standard style ("dark" or
// "light") wrapping at width. It is disabled when enabled is false or
// glamour cannot be initialized.
func NewRenderer(style string, width int, enabled bool) *Renderer {
	if !enabled {
		return &Renderer{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{r: r}
}

// Enabled reports whether markdown is rendered.
func (r *Renderer) Enabled() bool {
	return r != nil && r.r != nil
}

// Render renders content, or returns it unchanged when rendering is off or
// fails.
func (r *Renderer) Render(content string) string {
	if !r.Enabled() {
		return content
	}
	out, err := r.r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
