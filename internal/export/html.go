// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/ui/styles"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a transcript as a self-contained HTML page styled with
// the chat palette. Model replies are rendered from Markdown; raw HTML in
// them is dropped by goldmark's default renderer.
type HTMLExporter struct {
	options *Options
	md      goldmark.Markdown
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, md: goldmark.New()}
}

type htmlMessage struct {
	IsUser bool
	Label  string
	Time   string
	Body   template.HTML
}

type htmlPage struct {
	Title    string
	Model    string
	Date     string
	Palette  styles.Palette
	Messages []htmlMessage
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: {{.Palette.Background}}; color: {{.Palette.Text}}; font-family: sans-serif; margin: 0; }
header { background: {{.Palette.Header}}; border-bottom: 1px solid {{.Palette.Border}}; padding: 12px 20px; }
main { max-width: 820px; margin: 0 auto; padding: 16px; }
.msg { max-width: 80%; border-radius: 12px; padding: 10px 14px; margin: 8px 0; }
.user { background: {{.Palette.UserBubble}}; color: {{.Palette.UserText}}; margin-left: auto; white-space: pre-wrap; }
.model { background: {{.Palette.BotBubble}}; }
.meta { color: {{.Palette.Placeholder}}; font-size: 12px; }
</style>
</head>
<body>
<header><strong>{{.Title}}</strong> <span class="meta">{{.Model}} {{.Date}}</span></header>
<main>
{{range .Messages}}<div class="msg {{if .IsUser}}user{{else}}model{{end}}">
<div class="meta">{{.Label}}{{if .Time}} {{.Time}}{{end}}</div>
{{.Body}}
</div>
{{end}}</main>
</body>
</html>
`))

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	mode := styles.ModeDark
	if e.options.Theme == "light" {
		mode = styles.ModeLight
	}

	page := htmlPage{
		Title:   t.Title,
		Model:   t.Model,
		Date:    formatTimestamp(t.CreatedAt),
		Palette: styles.PaletteFor(mode),
	}

	for _, msg := range t.Messages {
		body, err := e.renderBody(msg)
		if err != nil {
			return nil, err
		}
		hm := htmlMessage{
			IsUser: msg.Role == model.RoleUser,
			Label:  msg.Role.DisplayName(),
			Body:   body,
		}
		if e.options.IncludeTimestamps {
			hm.Time = formatShortTimestamp(msg.Timestamp)
		}
		page.Messages = append(page.Messages, hm)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// renderBody escapes user text and converts model Markdown to HTML.
func (e *HTMLExporter) renderBody(msg model.Message) (template.HTML, error) {
	if msg.Role == model.RoleUser {
		return template.HTML(template.HTMLEscapeString(msg.Text)), nil
	}
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(msg.Text), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
