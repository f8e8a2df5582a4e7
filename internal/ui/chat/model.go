// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/export"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// Title is shown in the header.
	Title = "MaverickAi"

	// EmptyText is shown when there are no messages.
	EmptyText = "Start a new conversation"

	// ConfirmText is the reset confirmation question.
	ConfirmText = "Are you sure you want to start a new chat?"

	inputHeight = 3
	charLimit   = 8000
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a chat Model.
type Options struct {
	// Generator answers submissions. Nil makes every request fail.
	Generator gemini.Generator

	// ModelID is shown in the header and written into exports.
	ModelID string

	// Markdown renders replies with glamour.
	Markdown bool

	// ExportDir receives ctrl+e exports. Empty means the working directory;
	// see config.Config.ResolvedExportDir.
	ExportDir string

	// SpeechAvailable is false when no speech engine was found.
	SpeechAvailable bool

	// Changes delivers reloaded configs; nil disables watching.
	Changes <-chan *config.Config

	// HasDark reports the terminal background for the "auto" theme. It is
	// queried before the program starts; nil uses termenv.
	HasDark func() bool

	Logger *slog.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat view.
type Model struct {
	ctrl  *conversation.Controller
	opts  Options
	theme *styles.Theme
	keys  KeyMap

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	// selected is the ID of the reply ctrl+s acts on; empty means latest
	selected   string
	confirming bool
	notice     string

	width  int
	height int
	ready  bool

	logger *slog.Logger
}

// New creates a chat model over ctrl. The theme is owned by the model from
// here on.
func New(ctrl *conversation.Controller, theme *styles.Theme, opts Options) Model {
	if theme == nil {
		theme = styles.NewTheme(styles.ResolveMode(config.ThemeAuto, opts.HasDark))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = charLimit
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = DefaultKeyMap().Newline
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Bubble()

	m := Model{
		ctrl:     ctrl,
		opts:     opts,
		theme:    theme,
		keys:     DefaultKeyMap(),
		viewport: viewport.New(80, 20),
		input:    ta,
		spinner:  sp,
		markdown: &markdownRenderer{},
		logger:   logger,
	}
	m.applyThemeToWidgets()
	return m
}

// Theme returns the current theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}

// Confirming reports whether the reset dialog is open.
func (m Model) Confirming() bool {
	return m.confirming
}

// Notice returns the current transient notice.
func (m Model) Notice() string {
	return m.notice
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the config watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, WatchConfigCmd(m.opts.Changes))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case SpeechDoneMsg:
		if m.ctrl.SpeechFinished(msg.Token) {
			m.refresh(false)
		}
		return m, nil

	case ConfigChangedMsg:
		return m.handleConfigChange(msg)

	case CopyDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("clipboard copy failed", "error", msg.Err)
			m.notice = "Failed to copy to clipboard"
		} else {
			m.notice = "Copied reply to clipboard"
		}
		return m, nil

	case ExportDoneMsg:
		switch {
		case errors.Is(msg.Err, export.ErrEmptyTranscript):
			m.notice = "Nothing to export"
		case msg.Err != nil:
			m.logger.Warn("export failed", "error", msg.Err)
			m.notice = "Export failed"
		default:
			m.logger.Info("transcript exported", "path", msg.Path)
			m.notice = "Exported to " + msg.Path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.State().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.render()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.ready = true

	m.input.SetWidth(m.inputWidth())
	m.layout()
	m.refresh(true)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.confirming {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		return m.requestReset()

	case key.Matches(msg, m.keys.ToggleTheme):
		m.setTheme(m.theme.Toggled())
		return m, nil

	case key.Matches(msg, m.keys.ToggleSpeech):
		return m.toggleSpeech()

	case key.Matches(msg, m.keys.SelectPrev):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.SelectNext):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()

	case key.Matches(msg, m.keys.Export):
		return m.exportTranscript()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		if m.ctrl.Reset(context.Background()) {
			m.input.Reset()
			m.selected = ""
			m.notice = ""
		}
		m.layout()
		m.refresh(true)
	case key.Matches(msg, m.keys.Cancel):
		m.confirming = false
		m.layout()
	}
	return m, nil
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Resolve(msg.Result) {
		return m, nil
	}
	m.layout()
	m.refresh(true)
	return m, nil
}

func (m Model) handleConfigChange(msg ConfigChangedMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg != nil {
		mode := styles.ResolveMode(cfg.UI.Theme, m.opts.HasDark)
		if mode != m.theme.Mode {
			m.logger.Info("appearance changed", "theme", mode.String())
			t := styles.NewTheme(mode)
			t.SetSize(m.width, m.height)
			m.setTheme(t)
		}
		m.opts.Markdown = cfg.UI.Markdown
		m.opts.ExportDir = cfg.ResolvedExportDir()
		m.refresh(false)
	}
	return m, WatchConfigCmd(m.opts.Changes)
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	p, ok := m.ctrl.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.selected = ""
	m.notice = ""
	m.layout()
	m.refresh(true)
	return m, tea.Batch(SendCmd(m.opts.Generator, p), m.spinner.Tick)
}

func (m Model) requestReset() (tea.Model, tea.Cmd) {
	if !m.ctrl.NeedsConfirmation() {
		return m, nil
	}
	m.confirming = true
	m.layout()
	return m, nil
}

func (m Model) toggleSpeech() (tea.Model, tea.Cmd) {
	state := m.ctrl.State()
	id := m.selectedReplyID()
	if !state.IsSpeaking {
		if id == "" {
			m.notice = "No reply to speak"
			return m, nil
		}
		if !m.opts.SpeechAvailable {
			m.notice = "No speech engine found"
			return m, nil
		}
	}

	pb, err := m.ctrl.ToggleSpeech(context.Background(), id)
	if err != nil {
		m.notice = "Speech failed"
	}
	m.refresh(false)
	if pb == nil {
		return m, nil
	}
	return m, WaitSpeechCmd(pb)
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	msg, ok := m.ctrl.LastReply()
	if !ok {
		m.notice = "No reply to copy"
		return m, nil
	}
	return m, CopyCmd(msg.Text)
}

func (m Model) exportTranscript() (tea.Model, tea.Cmd) {
	state := m.ctrl.State()
	if state.IsEmpty() {
		m.notice = "Nothing to export"
		return m, nil
	}
	opts := export.DefaultOptions()
	if m.opts.ExportDir != "" {
		opts.OutputDir = m.opts.ExportDir
	}
	opts.Theme = m.theme.Mode.String()
	return m, ExportCmd(export.NewTranscript(m.opts.ModelID, state.Messages), opts)
}

// =============================================================================
// SELECTION
// =============================================================================

// selectedReplyID returns the reply ctrl+s acts on: the explicit selection
// if it still exists, otherwise the latest reply.
func (m Model) selectedReplyID() string {
	ids := m.ctrl.ReplyIDs()
	if len(ids) == 0 {
		return ""
	}
	for _, id := range ids {
		if id == m.selected {
			return id
		}
	}
	return ids[len(ids)-1]
}

func (m *Model) moveSelection(delta int) {
	ids := m.ctrl.ReplyIDs()
	if len(ids) == 0 {
		return
	}
	current := len(ids) - 1
	sel := m.selectedReplyID()
	for i, id := range ids {
		if id == sel {
			current = i
			break
		}
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	if next >= len(ids) {
		next = len(ids) - 1
	}
	m.selected = ids[next]
	m.refresh(false)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) setTheme(t *styles.Theme) {
	m.theme = t
	m.applyThemeToWidgets()
	m.refresh(false)
}

func (m *Model) applyThemeToWidgets() {
	m.spinner.Style = m.theme.Spinner
	focused, blurred := textarea.DefaultStyles()
	focused.Text = m.theme.InputText
	focused.Placeholder = m.theme.InputPlaceholder
	focused.CursorLine = m.theme.InputText
	blurred.Text = m.theme.InputText
	blurred.Placeholder = m.theme.InputPlaceholder
	m.input.FocusedStyle = focused
	m.input.BlurredStyle = blurred
}

func (m Model) inputWidth() int {
	// container border and padding plus the send indicator
	w := m.width - 4 - lipgloss.Width(m.renderSendButton(false)) - 1
	if w < 10 {
		w = 10
	}
	return w
}

// layout sizes the viewport to whatever the header and footer leave.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter(m.ctrl.State()))
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// refresh re-renders the bubbles into the viewport.
func (m *Model) refresh(toBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.ctrl.State()))
	if toBottom {
		m.viewport.GotoBottom()
	}
}
