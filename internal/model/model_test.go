// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_AssignsUniqueIDs(t *testing.T) {
	a := NewUserMessage("hi")
	b := NewUserMessage("hi")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, RoleUser, a.Role)
	assert.False(t, a.Timestamp.IsZero())
}

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleModel, "Maverick"},
		{Role("other"), "other"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.DisplayName())
		})
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewModelMessage("line one\nline two is longer")
	assert.Equal(t, "line one line...", msg.Preview(16))
	assert.Equal(t, "line one\nline two is longer", msg.Text)
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendOrder(t *testing.T) {
	conv := NewConversation()
	require.True(t, conv.IsEmpty())

	u := conv.AddUserMessage("Hello")
	m := conv.AddModelMessage("Hi there")

	require.Equal(t, 2, conv.Len())
	assert.Equal(t, u.ID, conv.Messages[0].ID)
	assert.Equal(t, m.ID, conv.Messages[1].ID)

	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "Hi there", last.Text)
}

func TestConversation_LastModelMessage(t *testing.T) {
	conv := NewConversation()
	_, ok := conv.LastModelMessage()
	assert.False(t, ok)

	conv.AddUserMessage("a")
	first := conv.AddModelMessage("b")
	conv.AddUserMessage("c")

	got, ok := conv.LastModelMessage()
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, []string{first.ID}, conv.ModelMessages())
}

func TestConversation_HistoryIsCopy(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("one")

	h := conv.History()
	conv.AddModelMessage("two")

	assert.Len(t, h, 1)
	assert.Equal(t, 2, conv.Len())
}

func TestConversation_FindAndClear(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddUserMessage("find me")

	got, ok := conv.Find(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "find me", got.Text)

	conv.Clear()
	assert.True(t, conv.IsEmpty())
	_, ok = conv.Find(msg.ID)
	assert.False(t, ok)
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestGetModelInfo(t *testing.T) {
	info, ok := GetModelInfo("models/Gemini-1.5-Flash")
	require.True(t, ok)
	assert.Equal(t, "Gemini 1.5 Flash", info.Name)
	assert.Equal(t, "1M", info.ContextString())

	_, ok = GetModelInfo("unknown-model")
	assert.False(t, ok)
	assert.Equal(t, "unknown-model", DisplayName("unknown-model"))
}

func TestLabelAndDescribe(t *testing.T) {
	assert.Equal(t, "Gemini Pro 32K", Label("gemini-pro"))
	assert.Equal(t, "Gemini 1.5 Pro (2M context): Complex reasoning over long inputs", Describe("gemini-1.5-pro"))

	assert.Equal(t, "tuned-model-7", Label("tuned-model-7"))
	assert.Equal(t, "tuned-model-7", Describe("tuned-model-7"))
}

func TestModels_HaveRequiredFields(t *testing.T) {
	require.Contains(t, Models, DefaultModel)
	for id, m := range Models {
		t.Run(id, func(t *testing.T) {
			assert.Equal(t, id, m.ID)
			assert.NotEmpty(t, m.Name)
			assert.Positive(t, m.MaxTokens)
			assert.NotEmpty(t, m.Description)
		})
	}
	assert.Len(t, ModelIDs(), len(Models))
}
