// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/export"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line after printing a prompt.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history kept in the config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line. Non-empty input is added to the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() error {
	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return err
	}
	return util.AtomicWriteFile(c.historyFile, buf.Bytes(), 0600)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	herr := c.SaveHistory()
	if err := c.line.Close(); err != nil {
		return err
	}
	return herr
}

// =============================================================================
// SESSION
// =============================================================================

// ChatOptions configures a line-mode chat session.
type ChatOptions struct {
	Generator       gemini.Generator
	ModelID         string
	ExportDir       string
	SpeechAvailable bool
	Renderer        *Renderer
	Out             io.Writer
	Logger          *slog.Logger
}

// ChatSession drives a conversation.Controller from a line reader.
type ChatSession struct {
	ctrl *conversation.Controller
	in   LineReader
	opts ChatOptions
	out  io.Writer
}

// NewChatSession creates a session reading from in.
func NewChatSession(ctrl *conversation.Controller, in LineReader, opts ChatOptions) *ChatSession {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = &Renderer{}
	}
	return &ChatSession{ctrl: ctrl, in: in, opts: opts, out: opts.Out}
}

// Run reads lines until /quit, EOF or ctrl+c. Only reader failures are
// returned; request failures are shown and the loop continues.
func (s *ChatSession) Run(ctx context.Context) error {
	s.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.in.Prompt("you> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := s.handleCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		s.send(ctx, line)
	}
}

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.out, promptStyle.Render("MaverickAi")+infoStyle.Render(" "+model.Describe(s.opts.ModelID)))
	fmt.Fprintln(s.out, infoStyle.Render("Type a message, /help for commands, /quit to exit."))
	fmt.Fprintln(s.out)
}

// send submits line and prints the reply or the error text.
func (s *ChatSession) send(ctx context.Context, line string) {
	if s.opts.Generator == nil {
		fmt.Fprintln(s.out, errorStyle.Render(conversation.ErrorText))
		return
	}
	if !s.ctrl.Send(ctx, s.opts.Generator, line) {
		return
	}

	state := s.ctrl.State()
	if state.HasError() {
		fmt.Fprintln(s.out, errorStyle.Render(state.LastError))
		return
	}
	if reply, ok := s.ctrl.LastReply(); ok {
		fmt.Fprintln(s.out, replyLabelStyle.Render("maverick>"))
		fmt.Fprintln(s.out, s.opts.Renderer.Render(reply.Text))
		fmt.Fprintln(s.out)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const chatHelp = `Commands:
  /new               Start a new conversation
  /speak [n]         Speak the n-th latest reply (default 1), or stop speaking
  /export [format]   Export the transcript: md (default), json or html
  /help              Show this help
  /quit              Exit`

// handleCommand runs a slash command and reports whether to quit.
func (s *ChatSession) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/h", "/?":
		fmt.Fprintln(s.out, infoStyle.Render(chatHelp))

	case "/new", "/reset", "/clear":
		s.reset(ctx)

	case "/speak", "/say":
		s.speak(ctx, args)

	case "/export":
		format := "md"
		if len(args) > 0 {
			format = args[0]
		}
		s.export(format)

	default:
		fmt.Fprintln(s.out, errorStyle.Render("Unknown command: "+cmd+" (try /help)"))
	}
	return false
}

func (s *ChatSession) reset(ctx context.Context) {
	if !s.ctrl.NeedsConfirmation() {
		fmt.Fprintln(s.out, infoStyle.Render("Already a new conversation."))
		return
	}
	if !Confirm(s.in, "Are you sure you want to start a new chat?") {
		fmt.Fprintln(s.out, infoStyle.Render("Kept the conversation."))
		return
	}
	s.ctrl.Reset(ctx)
	fmt.Fprintln(s.out, infoStyle.Render("Started a new conversation."))
}

func (s *ChatSession) speak(ctx context.Context, args []string) {
	state := s.ctrl.State()
	if state.IsSpeaking {
		if _, err := s.ctrl.ToggleSpeech(ctx, state.SpeakingID); err != nil {
			fmt.Fprintln(s.out, errorStyle.Render("Could not stop speech."))
			return
		}
		fmt.Fprintln(s.out, infoStyle.Render("Stopped speaking."))
		return
	}

	if !s.opts.SpeechAvailable {
		fmt.Fprintln(s.out, errorStyle.Render("No speech engine found."))
		return
	}

	n := 1
	if len(args) > 0 {
		v, err := ParsePositiveInt(args[0], "reply number")
		if err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
			return
		}
		n = v
	}

	ids := s.ctrl.ReplyIDs()
	if n > len(ids) {
		fmt.Fprintln(s.out, errorStyle.Render("No such reply."))
		return
	}

	pb, err := s.ctrl.ToggleSpeech(ctx, ids[len(ids)-n])
	if err != nil {
		s.opts.Logger.Warn("speech failed", "error", err)
		fmt.Fprintln(s.out, errorStyle.Render("Speech failed."))
		return
	}
	if pb == nil {
		fmt.Fprintln(s.out, infoStyle.Render("Speech engine is busy."))
		return
	}

	go func() {
		<-pb.Done
		s.ctrl.SpeechFinished(pb.Token)
	}()
	fmt.Fprintln(s.out, infoStyle.Render("Speaking reply "+strconv.Itoa(n)+". /speak again to stop."))
}

func (s *ChatSession) export(format string) {
	state := s.ctrl.State()
	if state.IsEmpty() {
		fmt.Fprintln(s.out, infoStyle.Render("Nothing to export."))
		return
	}

	opts := export.DefaultOptions()
	if s.opts.ExportDir != "" {
		opts.OutputDir = s.opts.ExportDir
	}
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
		return
	}

	path, err := export.ExportToFile(export.NewTranscript(s.opts.ModelID, state.Messages), exporter, opts)
	if err != nil {
		s.opts.Logger.Warn("export failed", "error", err)
		fmt.Fprintln(s.out, errorStyle.Render("Export failed."))
		return
	}
	fmt.Fprintln(s.out, infoStyle.Render("Exported to "+path))
}
