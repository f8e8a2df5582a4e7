// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen chat view for the TUI.
//
// The Model is a Bubble Tea model that renders a conversation.Controller:
//
//   - a header with the title, the new-chat and theme actions
//   - a scrolling list of bubbles, user on the right and replies on the left
//   - a multiline input with a send indicator that is disabled while loading
//   - a spinner, error line and notice line under the list
//   - a confirmation dialog guarding reset of a non-empty conversation
//
// Requests run in tea.Cmd goroutines against a history snapshot and come
// back as ReplyMsg. Speech completion comes back as SpeechDoneMsg, and
// config file changes as ConfigChangedMsg.
//
// # Key Bindings
//
//	Enter      Send the message
//	Alt+Enter  Insert a newline
//	Ctrl+N     New conversation (asks first when non-empty)
//	Ctrl+T     Toggle light/dark theme
//	Ctrl+S     Speak or stop the selected reply
//	Alt+Up/Dn  Select the previous/next reply
//	Ctrl+Y     Copy the last reply
//	Ctrl+E     Export the transcript as markdown
//	PgUp/PgDn  Scroll
//	Ctrl+C     Quit
package chat
