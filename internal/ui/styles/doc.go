// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the maverick TUI.

# Palettes (palette.go)

Two fixed palettes, DarkPalette and LightPalette, name every color the UI
uses: background, header, text, input, placeholder, user and bot bubbles,
send button, border, error and empty-state text.

# Theme (theme.go)

A Theme is built from one Mode and carries the lip gloss styles derived from
its palette. It is a value handed to rendering code, never a global:

	mode := styles.ResolveMode(cfg.UI.Theme, nil)
	theme := styles.NewTheme(mode)
	theme = theme.Toggled() // ctrl+t

ResolveMode with "auto" asks the terminal for its background color through
termenv, which plays the part of the host appearance setting.

# Spinners (spinner.go)

SpinnerConfig values convert to bubbles spinner definitions.
*/
package styles
