// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds every style for one appearance. Rendering code receives the
// theme explicitly; there is no package-level current theme.
type Theme struct {
	Mode    Mode
	Palette Palette

	// Terminal capabilities
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION AND HEADER
	// ==========================================================================

	App          lipgloss.Style
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderAction lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLES
	// ==========================================================================

	UserBubble     lipgloss.Style
	BotBubble      lipgloss.Style
	BotBubbleFocus lipgloss.Style
	Timestamp      lipgloss.Style
	SpeechActive   lipgloss.Style
	SpeechIdle     lipgloss.Style
	EmptyState     lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer     lipgloss.Style
	InputText          lipgloss.Style
	InputPlaceholder   lipgloss.Style
	SendButton         lipgloss.Style
	SendButtonDisabled lipgloss.Style

	// ==========================================================================
	// STATUS AND FEEDBACK
	// ==========================================================================

	Spinner   lipgloss.Style
	ErrorLine lipgloss.Style
	Notice    lipgloss.Style
	Help      lipgloss.Style

	// ==========================================================================
	// CONFIRMATION DIALOG
	// ==========================================================================

	DialogBox   lipgloss.Style
	DialogTitle lipgloss.Style
	DialogKey   lipgloss.Style
}

// NewTheme creates a theme for mode with all styles configured.
func NewTheme(mode Mode) *Theme {
	t := &Theme{
		Mode:         mode,
		Palette:      PaletteFor(mode),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// ResolveMode maps a ui.theme setting to a mode. "auto" (and anything
// unrecognised) asks the terminal via hasDark; a nil hasDark uses termenv.
func ResolveMode(setting string, hasDark func() bool) Mode {
	switch strings.ToLower(setting) {
	case "dark":
		return ModeDark
	case "light":
		return ModeLight
	}
	if hasDark == nil {
		hasDark = termenv.HasDarkBackground
	}
	if hasDark() {
		return ModeDark
	}
	return ModeLight
}

// Toggled returns a new theme in the opposite mode with the same size.
func (t *Theme) Toggled() *Theme {
	nt := NewTheme(t.Mode.Opposite())
	nt.SetSize(t.Width, t.Height)
	return nt
}

// GlamourStyle returns the glamour standard style name matching the mode.
func (t *Theme) GlamourStyle() string {
	return t.Mode.String()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	t.App = lipgloss.NewStyle().
		Background(p.Background).
		Foreground(p.Text)

	t.Header = lipgloss.NewStyle().
		Background(p.Header).
		Foreground(p.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	t.HeaderAction = lipgloss.NewStyle().
		Foreground(p.SendButton)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserText).
		Background(p.UserBubble).
		Padding(0, 1)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.BotBubble).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BotBubble).
		Padding(0, 1)

	t.BotBubbleFocus = t.BotBubble.
		BorderForeground(p.SendButton)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.Placeholder).
		Italic(true)

	t.SpeechActive = lipgloss.NewStyle().
		Foreground(p.SendButton).
		Bold(true)

	t.SpeechIdle = lipgloss.NewStyle().
		Foreground(p.Placeholder)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(p.EmptyText).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		Background(p.Input).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	t.InputText = lipgloss.NewStyle().
		Foreground(p.Text)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.Placeholder)

	t.SendButton = lipgloss.NewStyle().
		Foreground(p.UserText).
		Background(p.SendButton).
		Bold(true).
		Padding(0, 1)

	t.SendButtonDisabled = lipgloss.NewStyle().
		Foreground(p.Placeholder).
		Background(p.Border).
		Padding(0, 1)

	// Status and feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.SendButton)

	t.ErrorLine = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	t.Notice = lipgloss.NewStyle().
		Foreground(p.Placeholder)

	t.Help = lipgloss.NewStyle().
		Foreground(p.Placeholder)

	// Confirmation dialog
	t.DialogBox = lipgloss.NewStyle().
		Background(p.Header).
		Foreground(p.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.SendButton).
		Padding(1, 3)

	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	t.DialogKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.SendButton)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// BubbleWidth returns the maximum bubble width: 80% of the terminal, as on
// the phone screen, but never narrower than 20 columns.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 8 / 10
	if w < 20 {
		w = 20
	}
	return w
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
