// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation implements the chat state machine shared by the
// terminal UI and the line-mode REPL.
//
// A submission moves the controller from idle to loading. While loading,
// further submissions are rejected; input editing, reset and speech toggling
// stay available. The request itself runs outside the controller against a
// snapshot of the history (Pending.Run) and its Result is applied with
// Resolve. Every Reset bumps a generation counter, and a Result carrying an
// older generation is dropped, so a reply can never land in a conversation
// that was started after it was requested.
//
// # Usage
//
//	ctrl := conversation.New(speaker, logger)
//	if p, ok := ctrl.Submit(text); ok {
//	    go func() { results <- p.Run(ctx, backend) }()
//	}
//	// later, on the UI loop:
//	ctrl.Resolve(<-results)
package conversation
