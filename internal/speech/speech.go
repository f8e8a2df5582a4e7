// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech plays text aloud through an external text-to-speech
// program.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pratik0310/Maverick-Ai/internal/config"
)

var (
	// ErrNoEngine indicates no usable TTS program was found.
	ErrNoEngine = errors.New("no text-to-speech engine found")

	// ErrBusy indicates playback is already running.
	ErrBusy = errors.New("speaker is busy")
)

// Speaker is the text-to-speech collaborator. Speak starts playback and
// returns a channel that is closed when playback ends for any reason.
type Speaker interface {
	Speak(ctx context.Context, text string) (<-chan struct{}, error)
	Stop() error
	IsBusy() bool
}

// =============================================================================
// COMMAND SPEAKER
// =============================================================================

// CommandSpeaker runs one TTS process at a time, passing the text as the
// final argument.
type CommandSpeaker struct {
	path   string
	args   []string
	logger *slog.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandSpeaker creates a speaker for the program at path.
func NewCommandSpeaker(path string, args ...string) *CommandSpeaker {
	return &CommandSpeaker{
		path:   path,
		args:   args,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger.
func (s *CommandSpeaker) WithLogger(logger *slog.Logger) *CommandSpeaker {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Name returns the program path.
func (s *CommandSpeaker) Name() string {
	return s.path
}

// Speak starts the TTS process. It returns ErrBusy if one is running.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil, ErrBusy
	}

	args := append(append([]string(nil), s.args...), PlainText(text))
	cmd := exec.CommandContext(ctx, s.path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", s.path, err)
	}
	s.cmd = cmd
	s.logger.Debug("speech started", "engine", s.path, "pid", cmd.Process.Pid, "chars", len(text))

	done := make(chan struct{})
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
		}
		s.mu.Unlock()
		if err != nil {
			s.logger.Debug("speech process exited", "engine", s.path, "error", err)
		}
		close(done)
	}()

	return done, nil
}

// Stop kills the running process, if any.
func (s *CommandSpeaker) Stop() error {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stopping %s: %w", s.path, err)
	}
	s.logger.Debug("speech stopped", "engine", s.path)
	return nil
}

// IsBusy reports whether a process is running.
func (s *CommandSpeaker) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// =============================================================================
// NOP SPEAKER
// =============================================================================

// Nop is a Speaker that is never busy and finishes immediately.
type Nop struct{}

// Speak returns an already-closed channel.
func (Nop) Speak(context.Context, string) (<-chan struct{}, error) {
	done := make(chan struct{})
	close(done)
	return done, nil
}

// Stop does nothing.
func (Nop) Stop() error { return nil }

// IsBusy always returns false.
func (Nop) IsBusy() bool { return false }

// =============================================================================
// ENGINE DETECTION
// =============================================================================

type engine struct {
	name string
	args []string
}

// engines are tried in order.
var engines = []engine{
	{name: "say"},
	{name: "espeak-ng"},
	{name: "espeak"},
	{name: "spd-say", args: []string{"--wait"}},
	{name: "edge-playback", args: []string{"--text"}},
}

var lookPath = exec.LookPath

// Detect returns the configured speaker. Disabled speech yields Nop. When no
// engine can be found it returns Nop together with an error wrapping
// ErrNoEngine so the caller can warn and carry on.
func Detect(cfg config.SpeechConfig, logger *slog.Logger) (Speaker, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}

	if cfg.Command != "" {
		path, err := lookPath(cfg.Command)
		if err != nil {
			return Nop{}, fmt.Errorf("%w: %s: %v", ErrNoEngine, cfg.Command, err)
		}
		return NewCommandSpeaker(path, cfg.Args...).WithLogger(logger), nil
	}

	for _, e := range engines {
		path, err := lookPath(e.name)
		if err != nil {
			continue
		}
		return NewCommandSpeaker(path, append(e.args, cfg.Args...)...).WithLogger(logger), nil
	}
	return Nop{}, ErrNoEngine
}

// plainReplacer drops markdown markers that engines would read aloud.
var plainReplacer = strings.NewReplacer(
	"```", " ",
	"`", "",
	"**", "",
	"__", "",
	"#", "",
	"*", "",
	">", "",
)

// PlainText prepares reply text for speech.
func PlainText(s string) string {
	return strings.Join(strings.Fields(plainReplacer.Replace(s)), " ")
}
