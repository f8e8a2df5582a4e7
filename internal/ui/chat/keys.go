// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat view.
type KeyMap struct {
	Submit       key.Binding
	Newline      key.Binding
	NewChat      key.Binding
	ToggleTheme  key.Binding
	ToggleSpeech key.Binding
	SelectPrev   key.Binding
	SelectNext   key.Binding
	Copy         key.Binding
	Export       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Quit         key.Binding

	// Confirmation dialog
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "newline"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		ToggleSpeech: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "speak"),
		),
		SelectPrev: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+up", "prev reply"),
		),
		SelectNext: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("alt+down", "next reply"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy reply"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// ShortHelp returns the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.ToggleSpeech, k.Copy, k.Export, k.Quit}
}

// FullHelp returns all bindings grouped for a help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline},
		{k.NewChat, k.ToggleTheme},
		{k.ToggleSpeech, k.SelectPrev, k.SelectNext},
		{k.Copy, k.Export, k.PageUp, k.PageDown, k.Quit},
	}
}

// DialogHelp returns the bindings of the confirmation dialog.
func (k KeyMap) DialogHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}
