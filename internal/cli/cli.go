// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/model"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdAsk:
		return "ask"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Model      string
	Theme      string
	NoSpeech   bool
	Plain      bool
	JSON       bool

	// Command-specific
	Query      string
	Subcommand string
	Force      bool

	// Raw args remaining after the command name
	Raw []string
}

// Apply copies flag overrides into cfg. Flags beat the file and the
// environment.
func (a Args) Apply(cfg *config.Config) {
	if a.Model != "" {
		cfg.Gemini.Model = a.Model
	}
	if a.Theme != "" {
		cfg.UI.Theme = strings.ToLower(a.Theme)
	}
	if a.NoSpeech {
		cfg.Speech.Enabled = false
	}
}

const usageText = `maverick - chat with Gemini from your terminal
Version: %s

USAGE:
  maverick [flags] [command]

COMMANDS:
  (none), tui          Full-screen chat
  chat                 Line-mode chat (used automatically when stdin is not a terminal)
  ask <question>       Ask once and print the reply (reads stdin when no question is given)
  config path          Print the config file location
  config init          Write a default config file (--force overwrites)
  config show          Print the effective config with the API key masked
  version              Print version information
  help                 Show this help

FLAGS:
  --config PATH        Config file (default ~/.maverick/config.toml)
  --model ID           Gemini model, e.g. gemini-1.5-pro
  --theme MODE         auto, dark or light
  --no-speech          Disable text-to-speech
  --plain              Use line-mode chat instead of the full-screen UI
  --json               JSON output for version
  -h, --help           Show this help
  -v, --version        Show version

MODELS:
  %s (other IDs are passed through)

CHAT KEYS:
  enter send, alt+enter newline, ctrl+n new chat, ctrl+t theme,
  ctrl+s speak/stop, alt+up/down select reply, ctrl+y copy reply,
  ctrl+e export, pgup/pgdn scroll, ctrl+c quit

LINE-MODE COMMANDS:
  /new  /speak [n]  /export [md|json|html]  /help  /quit

ENVIRONMENT:
  GEMINI_API_KEY, MAVERICK_GEMINI_API_KEY, MAVERICK_MODEL, MAVERICK_THEME,
  MAVERICK_SPEECH, MAVERICK_LOG_LEVEL (a .env file is read as well)
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version, strings.Join(model.ModelIDs(), ", "))
}

// VersionData is the JSON form of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// PrintVersion writes version information, as JSON when asJSON is set.
func PrintVersion(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
	}
	fmt.Fprintf(w, "maverick version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}

	if len(remaining) == 0 {
		if args.Plain {
			return CmdChat, args, nil
		}
		return CmdTUI, args, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args, nil

	case "chat":
		return CmdChat, args, nil

	case "ask":
		p := NewArgParser(remaining)
		args.Query = strings.Join(p.PositionalFrom(0), " ")
		return CmdAsk, args, nil

	case "config":
		p := NewArgParser(remaining, "force")
		args.Subcommand = p.Subcommand()
		if args.Subcommand == "" {
			args.Subcommand = "show"
		}
		args.Force = p.BoolFlag("force")
		switch args.Subcommand {
		case "path", "init", "show":
			return CmdConfig, args, nil
		}
		return CmdHelp, args, fmt.Errorf("unknown config subcommand %q", args.Subcommand)

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil
	}

	return CmdHelp, args, fmt.Errorf("unknown command %q", cmd)
}

// parseGlobalFlags extracts global flags and returns the remaining args.
// Global flags may appear anywhere on the line.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var remaining []string
	var args Args

	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(argv) {
			return "", fmt.Errorf("flag %s needs a value", name)
		}
		*i++
		return argv[*i], nil
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		if k, v, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(k, "--") {
			switch k {
			case "--config":
				args.ConfigPath = v
				continue
			case "--model":
				args.Model = v
				continue
			case "--theme":
				args.Theme = v
				continue
			}
		}

		var err error
		switch arg {
		case "--config":
			args.ConfigPath, err = value(&i, arg)
		case "--model", "-m":
			args.Model, err = value(&i, arg)
		case "--theme":
			args.Theme, err = value(&i, arg)
		case "--no-speech":
			args.NoSpeech = true
		case "--plain":
			args.Plain = true
		case "--json":
			args.JSON = true
		case "-h", "--help":
			remaining = append([]string{"help"}, remaining...)
		case "-v", "--version":
			remaining = append([]string{"version"}, remaining...)
		default:
			remaining = append(remaining, arg)
		}
		if err != nil {
			return nil, args, err
		}
	}

	if args.Theme != "" {
		switch strings.ToLower(args.Theme) {
		case config.ThemeAuto, config.ThemeDark, config.ThemeLight:
		default:
			return nil, args, fmt.Errorf("invalid --theme %q (want auto, dark or light)", args.Theme)
		}
	}

	return remaining, args, nil
}
