// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/ui/styles"
	"github.com/pratik0310/Maverick-Ai/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// render composes header, message list and footer. The dialog replaces the
// message list while it is open.
func (m Model) render() string {
	state := m.ctrl.State()

	body := m.viewport.View()
	if m.confirming {
		body = lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center, m.renderDialog())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(state),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render(Title)
	if m.opts.ModelID != "" && t.GetLayoutMode() != styles.LayoutNarrow {
		title += t.Timestamp.Render("  " + model.Label(m.opts.ModelID))
	}

	actions := strings.Join([]string{
		t.HeaderAction.Render("ctrl+n") + " new",
		t.HeaderAction.Render("ctrl+t") + " " + t.Mode.String(),
	}, "  ")

	inner := m.width - t.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(title) - lipgloss.Width(actions)
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + actions)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders every bubble for the viewport.
func (m Model) renderMessages(state conversation.State) string {
	if state.IsEmpty() {
		return lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.theme.EmptyState.Render(EmptyText))
	}

	selected := m.selectedReplyID()
	var b strings.Builder
	for i, msg := range state.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		if msg.IsUser() {
			b.WriteString(m.renderUserBubble(msg))
		} else {
			speaking := state.IsSpeaking && state.SpeakingID == msg.ID
			b.WriteString(m.renderBotBubble(msg, msg.ID == selected, speaking))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderUserBubble renders a right-aligned user bubble.
func (m Model) renderUserBubble(msg model.Message) string {
	t := m.theme
	style := t.UserBubble
	w := fitWidth(msg.Text, t.BubbleWidth()-style.GetHorizontalFrameSize())

	bubble := style.Width(w + style.GetHorizontalPadding()).Render(msg.Text)
	stamp := t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	block := lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
}

// renderBotBubble renders a left-aligned reply bubble with its speech
// indicator.
func (m Model) renderBotBubble(msg model.Message, selected, speaking bool) string {
	t := m.theme
	style := t.BotBubble
	if selected {
		style = t.BotBubbleFocus
	}
	limit := t.BubbleWidth() - style.GetHorizontalFrameSize()

	text := msg.Text
	if m.opts.Markdown {
		text = m.markdown.Render(msg.Text, t.GlamourStyle(), limit)
	}
	w := fitWidth(text, limit)

	indicator := t.SpeechIdle.Render("[speak]")
	if speaking {
		indicator = t.SpeechActive.Render("[speaking]")
	}
	label := model.RoleModel.DisplayName() + " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	head := label + " " + indicator

	bubble := style.Width(w + style.GetHorizontalPadding()).Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, " "+head, bubble)
}

// fitWidth returns the widest line of s, capped at limit. ANSI sequences
// from glamour do not count.
func fitWidth(s string, limit int) int {
	if limit < 1 {
		limit = 1
	}
	w := lipgloss.Width(s)
	if w > limit {
		return limit
	}
	if w < 1 {
		return 1
	}
	return w
}

// =============================================================================
// FOOTER
// =============================================================================

// renderFooter renders the status line, the input and the help line.
func (m Model) renderFooter(state conversation.State) string {
	t := m.theme

	var status string
	switch {
	case state.IsLoading:
		status = m.spinner.View() + t.Notice.Render(util.TruncateWidth(" Maverick is thinking", m.width-4))
	case state.HasError():
		status = t.ErrorLine.Render(util.TruncateWidth(state.LastError, m.width))
	case m.notice != "":
		status = t.Notice.Render(util.TruncateWidth(m.notice, m.width))
	}

	input := lipgloss.JoinHorizontal(lipgloss.Bottom,
		m.input.View(), " ", m.renderSendButton(state.IsLoading))
	box := t.InputContainer.Width(m.width - t.InputContainer.GetHorizontalBorderSize()).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left, status, box, m.renderHelp())
}

// renderSendButton renders the send indicator, dimmed while loading.
func (m Model) renderSendButton(loading bool) string {
	if loading {
		return m.theme.SendButtonDisabled.Render("Send")
	}
	return m.theme.SendButton.Render("Send")
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	if m.confirming {
		bindings = m.keys.DialogHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Help.Render(util.TruncateWidth(strings.Join(parts, " • "), m.width))
}

// =============================================================================
// DIALOG
// =============================================================================

func (m Model) renderDialog() string {
	t := m.theme
	keys := t.DialogKey.Render("y") + " yes   " + t.DialogKey.Render("n") + " no"
	return t.DialogBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		t.DialogTitle.Render(ConfirmText),
		"",
		keys,
	))
}
