// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Mode is the appearance the UI renders in.
type Mode int

const (
	ModeDark Mode = iota
	ModeLight
)

// String returns "dark" or "light".
func (m Mode) String() string {
	if m == ModeLight {
		return "light"
	}
	return "dark"
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == ModeLight {
		return ModeDark
	}
	return ModeLight
}

// =============================================================================
// PALETTES
// =============================================================================

// Palette is the set of named colors for one mode.
type Palette struct {
	Background  lipgloss.Color
	Header      lipgloss.Color
	Text        lipgloss.Color
	Input       lipgloss.Color
	Placeholder lipgloss.Color
	UserBubble  lipgloss.Color
	BotBubble   lipgloss.Color
	UserText    lipgloss.Color
	SendButton  lipgloss.Color
	Border      lipgloss.Color
	Error       lipgloss.Color
	EmptyText   lipgloss.Color
}

// DarkPalette is used on dark backgrounds.
var DarkPalette = Palette{
	Background:  "#121212",
	Header:      "#1f1f1f",
	Text:        "#ffffff",
	Input:       "#2a2a2a",
	Placeholder: "#aaaaaa",
	UserBubble:  "#6e48aa",
	BotBubble:   "#2a2a2a",
	UserText:    "#ffffff",
	SendButton:  "#6e48aa",
	Border:      "#333333",
	Error:       "#ff6b6b",
	EmptyText:   "#aaaaaa",
}

// LightPalette is used on light backgrounds.
var LightPalette = Palette{
	Background:  "#f5f5f5",
	Header:      "#ffffff",
	Text:        "#000000",
	Input:       "#ffffff",
	Placeholder: "#666666",
	UserBubble:  "#6e48aa",
	BotBubble:   "#e0e0e0",
	UserText:    "#ffffff",
	SendButton:  "#6e48aa",
	Border:      "#dddddd",
	Error:       "#ff4444",
	EmptyText:   "#666666",
}

// PaletteFor returns the palette for mode.
func PaletteFor(m Mode) Palette {
	if m == ModeLight {
		return LightPalette
	}
	return DarkPalette
}
