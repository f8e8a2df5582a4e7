// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/logging"
	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/speech"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// scriptReader replays lines, then returns io.EOF.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (r *scriptReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ []model.Message) (*gemini.Response, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &gemini.Response{Candidates: []gemini.Candidate{{
		Content: gemini.Content{Parts: []gemini.Part{{Text: g.reply}}},
	}}}, nil
}

type stubSpeaker struct {
	busy   bool
	spoken []string
}

func (s *stubSpeaker) Speak(_ context.Context, text string) (<-chan struct{}, error) {
	s.spoken = append(s.spoken, text)
	s.busy = true
	return make(chan struct{}), nil
}

func (s *stubSpeaker) Stop() error {
	s.busy = false
	return nil
}

func (s *stubSpeaker) IsBusy() bool { return s.busy }

func runSession(t *testing.T, gen gemini.Generator, sp *stubSpeaker, exportDir string, lines ...string) (*conversation.Controller, string) {
	t.Helper()
	var speaker speech.Speaker
	if sp != nil {
		speaker = sp
	}
	ctrl := conversation.New(speaker, logging.Discard())
	var out bytes.Buffer
	s := NewChatSession(ctrl, &scriptReader{lines: lines}, ChatOptions{
		Generator:       gen,
		ModelID:         "gemini-1.5-flash",
		ExportDir:       exportDir,
		SpeechAvailable: sp != nil,
		Out:             &out,
		Logger:          logging.Discard(),
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return ctrl, out.String()
}

// =============================================================================
// CHAT SESSION TESTS (chat.go)
// =============================================================================

func TestChatSession_SendPrintsReply(t *testing.T) {
	gen := &stubGenerator{reply: "Hi there"}
	ctrl, out := runSession(t, gen, nil, "", "Hello", "", "/quit", "ignored")

	if !strings.Contains(out, "Hi there") {
		t.Errorf("output missing reply: %q", out)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if !strings.Contains(out, "Gemini 1.5 Flash (1M context)") {
		t.Errorf("welcome missing model description: %q", out)
	}
	msgs := ctrl.State().Messages
	if len(msgs) != 2 || msgs[0].Text != "Hello" || msgs[1].Text != "Hi there" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestChatSession_FailureShowsErrorText(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	ctrl, out := runSession(t, gen, nil, "", "Hello")

	if !strings.Contains(out, conversation.ErrorText) {
		t.Errorf("output missing error text: %q", out)
	}
	if n := len(ctrl.State().Messages); n != 1 {
		t.Errorf("messages = %d, want 1", n)
	}
}

func TestChatSession_NewAsksForConfirmation(t *testing.T) {
	gen := &stubGenerator{reply: "Hi"}

	ctrl, _ := runSession(t, gen, nil, "", "Hello", "/new", "n")
	if ctrl.State().IsEmpty() {
		t.Error("declined /new should keep the conversation")
	}

	ctrl, out := runSession(t, gen, nil, "", "Hello", "/new", "y")
	if !ctrl.State().IsEmpty() {
		t.Error("confirmed /new should clear the conversation")
	}
	if !strings.Contains(out, "Started a new conversation") {
		t.Errorf("output = %q", out)
	}

	_, out = runSession(t, gen, nil, "", "/new")
	if !strings.Contains(out, "Already a new conversation") {
		t.Errorf("empty /new output = %q", out)
	}
}

func TestChatSession_Speak(t *testing.T) {
	gen := &stubGenerator{reply: "first"}
	sp := &stubSpeaker{}

	ctrl, out := runSession(t, gen, sp, "", "one", "/speak")
	if len(sp.spoken) != 1 || sp.spoken[0] != "first" {
		t.Errorf("spoken = %v", sp.spoken)
	}
	if !ctrl.State().IsSpeaking {
		t.Error("should be speaking")
	}
	if !strings.Contains(out, "Speaking reply 1") {
		t.Errorf("output = %q", out)
	}

	sp = &stubSpeaker{}
	ctrl, out = runSession(t, gen, sp, "", "one", "/speak", "/speak")
	if ctrl.State().IsSpeaking {
		t.Error("second /speak should stop")
	}
	if !strings.Contains(out, "Stopped speaking") {
		t.Errorf("output = %q", out)
	}
}

func TestChatSession_SpeakErrors(t *testing.T) {
	gen := &stubGenerator{reply: "r"}

	_, out := runSession(t, gen, nil, "", "one", "/speak")
	if !strings.Contains(out, "No speech engine found") {
		t.Errorf("output = %q", out)
	}

	_, out = runSession(t, gen, &stubSpeaker{}, "", "one", "/speak 2")
	if !strings.Contains(out, "No such reply") {
		t.Errorf("output = %q", out)
	}

	_, out = runSession(t, gen, &stubSpeaker{busy: true}, "", "one", "/speak")
	if !strings.Contains(out, "busy") {
		t.Errorf("output = %q", out)
	}
}

func TestChatSession_Export(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{reply: "Hi there"}

	_, out := runSession(t, gen, nil, dir, "/export", "Hello", "/export json", "/export pdf")
	if !strings.Contains(out, "Nothing to export") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "unsupported export format") {
		t.Errorf("output = %q", out)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "maverick_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("exported files = %v, %v", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Hi there") {
		t.Errorf("export missing reply: %s", data)
	}
}

func TestChatSession_UnknownCommand(t *testing.T) {
	_, out := runSession(t, &stubGenerator{}, nil, "", "/dance")
	if !strings.Contains(out, "Unknown command: /dance") {
		t.Errorf("output = %q", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		lines []string
		want  bool
	}{
		{[]string{"y"}, true},
		{[]string{" YES "}, true},
		{[]string{"n"}, false},
		{[]string{""}, false},
		{nil, false},
	}
	for _, tt := range tests {
		r := &scriptReader{lines: tt.lines}
		if got := Confirm(r, "Sure?"); got != tt.want {
			t.Errorf("Confirm(%v) = %v, want %v", tt.lines, got, tt.want)
		}
		if r.prompts[0] != "Sure? [y/N] " {
			t.Errorf("prompt = %q", r.prompts[0])
		}
	}
}

// =============================================================================
// ASK TESTS (ask.go)
// =============================================================================

func TestRunAsk(t *testing.T) {
	ctrl := conversation.New(nil, logging.Discard())
	var out bytes.Buffer
	err := RunAsk(context.Background(), ctrl, "Hello", AskOptions{
		Generator: &stubGenerator{reply: "Hi there"},
		Out:       &out,
	})
	if err != nil {
		t.Fatalf("RunAsk() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "Hi there" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunAsk_ReadsStdin(t *testing.T) {
	ctrl := conversation.New(nil, logging.Discard())
	var out bytes.Buffer
	err := RunAsk(context.Background(), ctrl, "", AskOptions{
		Generator: &stubGenerator{reply: "ok"},
		Stdin:     strings.NewReader("  piped question \n"),
		Out:       &out,
	})
	if err != nil {
		t.Fatalf("RunAsk() error = %v", err)
	}
	if got := ctrl.State().Messages[0].Text; got != "piped question" {
		t.Errorf("question = %q", got)
	}
}

func TestRunAsk_Errors(t *testing.T) {
	ctrl := conversation.New(nil, logging.Discard())
	err := RunAsk(context.Background(), ctrl, "", AskOptions{Out: io.Discard})
	if !errors.Is(err, ErrNoQuery) {
		t.Errorf("error = %v, want ErrNoQuery", err)
	}

	err = RunAsk(context.Background(), ctrl, "Hello", AskOptions{
		Generator: &stubGenerator{err: errors.New("boom")},
		Out:       io.Discard,
	})
	if err == nil || err.Error() != conversation.ErrorText {
		t.Errorf("error = %v, want %q", err, conversation.ErrorText)
	}
}

// =============================================================================
// CONFIG COMMAND TESTS (config_cmd.go)
// =============================================================================

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var out bytes.Buffer

	if err := RunConfig(Args{Subcommand: "path"}, path, nil, &out); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("path output = %q", out.String())
	}

	if err := RunConfig(Args{Subcommand: "init"}, path, nil, io.Discard); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if err := RunConfig(Args{Subcommand: "init"}, path, nil, io.Discard); err == nil {
		t.Error("second init without --force should fail")
	}
	if err := RunConfig(Args{Subcommand: "init", Force: true}, path, nil, io.Discard); err != nil {
		t.Errorf("init --force error = %v", err)
	}

	cfg := config.Default()
	cfg.Gemini.APIKey = "AIzaSyExampleKey1234"
	out.Reset()
	if err := RunConfig(Args{Subcommand: "show"}, path, cfg, &out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "AIzaSyExampleKey1234") {
		t.Error("show must not print the full key")
	}
	if !strings.Contains(out.String(), "AIza...1234") {
		t.Errorf("show output = %q", out.String())
	}
	if cfg.Gemini.APIKey != "AIzaSyExampleKey1234" {
		t.Error("show must not modify the config")
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"short":        "****",
		"abcd12345678": "abcd...5678",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

// =============================================================================
// RENDERER TESTS (render.go)
// =============================================================================

func TestRenderer_Disabled(t *testing.T) {
	r := NewRenderer("dark", 80, false)
	if r.Enabled() {
		t.Error("renderer should be disabled")
	}
	if got := r.Render("**x**"); got != "**x**" {
		t.Errorf("Render() = %q", got)
	}
	var nilR *Renderer
	if got := nilR.Render("plain"); got != "plain" {
		t.Errorf("nil Render() = %q", got)
	}
}

func TestRenderer_Enabled(t *testing.T) {
	r := NewRenderer("light", 60, true)
	if !r.Enabled() {
		t.Skip("glamour renderer unavailable")
	}
	got := r.Render("**bold**")
	if strings.Contains(got, "**") || !strings.Contains(got, "bold") {
		t.Errorf("Render() = %q", got)
	}
}
