// maverick - A terminal chat client for Gemini with text-to-speech.
//
// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/pratik0310/Maverick-Ai/internal/cli"
	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
	"github.com/pratik0310/Maverick-Ai/internal/logging"
	"github.com/pratik0310/Maverick-Ai/internal/speech"
	"github.com/pratik0310/Maverick-Ai/internal/ui/chat"
	"github.com/pratik0310/Maverick-Ai/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// configDebounce coalesces editor save bursts into one reload.
const configDebounce = 250 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// app holds the collaborators shared by every chat front end.
type app struct {
	cfg        *config.Config
	configPath string
	args       cli.Args
	logger     *slog.Logger
	backend    gemini.Backend
	ctrl       *conversation.Controller
	speechOK   bool
}

func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.PrintUsage(os.Stderr)
		return 1
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return 0
	case cli.CmdVersion:
		if err := cli.PrintVersion(os.Stdout, args.JSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	configPath := args.ConfigPath
	if configPath == "" {
		if configPath, err = config.ConfigPath(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if cmd == cli.CmdConfig && args.Subcommand != "show" {
		if err := cli.RunConfig(args, configPath, nil, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	args.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cmd == cli.CmdConfig {
		if err := cli.RunConfig(args, configPath, cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY (or add it to a .env file), or set gemini.api_key in "+configPath)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := gemini.New(ctx, cfg.Gemini, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer backend.Close()

	speaker, err := speech.Detect(cfg.Speech, logger)
	if err != nil {
		logger.Warn("speech disabled", "error", err)
	}

	a := &app{
		cfg:        cfg,
		configPath: configPath,
		args:       args,
		logger:     logger,
		backend:    backend,
		ctrl:       conversation.New(speaker, logger),
		speechOK:   err == nil && cfg.Speech.Enabled,
	}

	logger.Info("maverick starting",
		"version", Version,
		"command", cmd.String(),
		"model", cfg.Gemini.Model,
		"backend", cfg.Gemini.Backend,
		"speech", a.speechOK)

	switch {
	case cmd == cli.CmdAsk:
		err = a.runAsk(ctx, args)
	case cmd == cli.CmdChat, !cli.IsTTY():
		err = a.runChat(ctx)
	default:
		err = a.runTUI()
	}

	if st := a.ctrl.State(); st.IsSpeaking {
		// leave no TTS process behind
		_, _ = a.ctrl.ToggleSpeech(context.Background(), st.SpeakingID)
	}

	if err != nil {
		logger.Error("exiting with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// glamourStyle resolves ui.theme for line-mode output.
func (a *app) glamourStyle() string {
	return styles.ResolveMode(a.cfg.UI.Theme, nil).String()
}

func (a *app) runAsk(ctx context.Context, args cli.Args) error {
	var stdin io.Reader
	if !cli.IsTTY() {
		stdin = os.Stdin
	}
	renderer := cli.NewRenderer(a.glamourStyle(), cli.GetTerminalWidth(), a.cfg.UI.Markdown && cli.IsStdoutTTY())
	return cli.RunAsk(ctx, a.ctrl, args.Query, cli.AskOptions{
		Generator: a.backend,
		Renderer:  renderer,
		Stdin:     stdin,
		Out:       os.Stdout,
	})
}

func (a *app) runChat(ctx context.Context) error {
	in := cli.NewChatCLI()
	defer func() {
		if err := in.Close(); err != nil {
			a.logger.Warn("failed to save chat history", "error", err)
		}
	}()

	renderer := cli.NewRenderer(a.glamourStyle(), cli.GetTerminalWidth(), a.cfg.UI.Markdown && cli.IsStdoutTTY())
	session := cli.NewChatSession(a.ctrl, in, cli.ChatOptions{
		Generator:       a.backend,
		ModelID:         a.cfg.Gemini.Model,
		ExportDir:       a.cfg.ResolvedExportDir(),
		SpeechAvailable: a.speechOK,
		Renderer:        renderer,
		Out:             os.Stdout,
		Logger:          a.logger,
	})
	return session.Run(ctx)
}

func (a *app) runTUI() error {
	// Query the terminal before Bubble Tea owns it.
	dark := termenv.HasDarkBackground()
	hasDark := func() bool { return dark }

	var changes <-chan *config.Config
	watcher, err := config.NewWatcher(a.configPath, configDebounce, a.logger)
	if err != nil {
		a.logger.Warn("config watching disabled", "error", err)
	} else {
		defer watcher.Close()
		changes = watcher.WithOverrides(a.args.Apply).Changes()
	}

	theme := styles.NewTheme(styles.ResolveMode(a.cfg.UI.Theme, hasDark))
	m := chat.New(a.ctrl, theme, chat.Options{
		Generator:       a.backend,
		ModelID:         a.cfg.Gemini.Model,
		Markdown:        a.cfg.UI.Markdown,
		ExportDir:       a.cfg.ResolvedExportDir(),
		SpeechAvailable: a.speechOK,
		Changes:         changes,
		HasDark:         hasDark,
		Logger:          a.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
