// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/export"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd runs p against g off the update loop and reports back as ReplyMsg.
func SendCmd(g gemini.Generator, p *conversation.Pending) tea.Cmd {
	return func() tea.Msg {
		if g == nil {
			return ReplyMsg{Result: conversation.Result{
				Generation: p.Generation,
				Err:        gemini.ErrNotConfigured,
			}}
		}
		return ReplyMsg{Result: p.Run(context.Background(), g)}
	}
}

// WaitSpeechCmd blocks until pb ends and reports back as SpeechDoneMsg.
func WaitSpeechCmd(pb *conversation.Playback) tea.Cmd {
	return func() tea.Msg {
		<-pb.Done
		return SpeechDoneMsg{Token: pb.Token}
	}
}

// WatchConfigCmd waits for the next reloaded config. It returns nil once
// the channel is closed, which ends the watch.
func WatchConfigCmd(changes <-chan *config.Config) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-changes
		if !ok {
			return nil
		}
		return ConfigChangedMsg{Config: cfg}
	}
}

// CopyCmd writes text to the system clipboard.
func CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyDoneMsg{Chars: len([]rune(text)), Err: clipboardWrite(text)}
	}
}

// ExportCmd writes t as markdown into opts.OutputDir.
func ExportCmd(t *export.Transcript, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		exporter, err := export.ForFormat("md", opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(t, exporter, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
