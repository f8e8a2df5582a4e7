// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders replies with glamour. The underlying renderer is
// rebuilt only when the style or wrap width changes.
type markdownRenderer struct {
	style string
	width int
	r     *glamour.TermRenderer
}

// Render returns content rendered for the terminal, or content itself when
// rendering fails.
func (m *markdownRenderer) Render(content, style string, width int) string {
	if width < 10 {
		width = 10
	}
	if m.r == nil || m.style != style || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.r, m.style, m.width = r, style, width
	}

	out, err := m.r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
