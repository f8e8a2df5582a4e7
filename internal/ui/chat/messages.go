// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
)

// =============================================================================
// REQUEST MESSAGES
// =============================================================================

// ReplyMsg carries the result of a generation request back to the loop.
type ReplyMsg struct {
	Result conversation.Result
}

// =============================================================================
// SPEECH MESSAGES
// =============================================================================

// SpeechDoneMsg is sent when a playback ends on its own.
type SpeechDoneMsg struct {
	Token uint64
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigChangedMsg is sent when the config file was rewritten and reloaded.
type ConfigChangedMsg struct {
	Config *config.Config
}

// =============================================================================
// CLIPBOARD AND EXPORT MESSAGES
// =============================================================================

// CopyDoneMsg reports the outcome of a clipboard copy.
type CopyDoneMsg struct {
	Chars int
	Err   error
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
