// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the non-TUI commands.
//
// # Commands
//
//   - (none), tui: full-screen chat (see package ui/chat)
//   - chat: line-mode chat over the same controller, with liner history
//   - ask: one question, reply printed to stdout
//   - config path|init|show: config file helpers
//   - version, help
//
// # Line-mode Commands
//
//	/new           Start a new conversation (asks first)
//	/speak [n]     Speak the n-th latest reply, or stop speaking
//	/export [fmt]  Export md, json or html
//	/help          Show commands
//	/quit          Exit
//
// Markdown is rendered with glamour only when stdout is a terminal.
package cli
