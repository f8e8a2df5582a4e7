// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered, append-only message history
//   - Message: single message with ID, role, text and timestamp
//   - ModelInfo: display information about a Gemini model
//   - Role: message author (user or model)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//	history := conv.History()
package model
