// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered, append-only message history. Insertion order is
// display order. It is not safe for concurrent use; callers serialize access.
type Conversation struct {
	ID        string    `json:"id"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message at the end of the history.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(text string) Message {
	msg := NewUserMessage(text)
	c.Append(msg)
	return msg
}

// AddModelMessage creates and appends a model reply.
func (c *Conversation) AddModelMessage(text string) Message {
	msg := NewModelMessage(text)
	c.Append(msg)
	return msg
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastModelMessage returns the most recent model reply.
func (c *Conversation) LastModelMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleModel {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// ModelMessages returns the IDs of all model replies in display order.
func (c *Conversation) ModelMessages() []string {
	var ids []string
	for _, m := range c.Messages {
		if m.Role == RoleModel {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Find returns the message with the given ID.
func (c *Conversation) Find(id string) (Message, bool) {
	for _, m := range c.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// History returns a copy of the messages safe to hand to another goroutine.
func (c *Conversation) History() []Message {
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// Clear removes every message.
func (c *Conversation) Clear() {
	c.Messages = make([]Message, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}
