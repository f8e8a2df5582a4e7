// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/pratik0310/Maverick-Ai/internal/config"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		boolNames []string
		wantSub   string
		validate  func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "flag with value",
			args:    []string{"show", "--lines", "50"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("lines") != "50" {
					t.Errorf("Flag(lines) = %q, want %q", p.Flag("lines"), "50")
				}
				if p.FlagIntOrDefault("lines", 0) != 50 {
					t.Errorf("FlagIntOrDefault(lines) = %d, want 50", p.FlagIntOrDefault("lines", 0))
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"init", "--theme=light"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("theme") != "light" {
					t.Errorf("Flag(theme) = %q, want %q", p.Flag("theme"), "light")
				}
			},
		},
		{
			name:      "declared boolean does not consume next arg",
			args:      []string{"--force", "init"},
			boolNames: []string{"force"},
			wantSub:   "init",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be true")
				}
			},
		},
		{
			name:      "explicit boolean value",
			args:      []string{"init", "--force=false"},
			boolNames: []string{"force"},
			wantSub:   "init",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be false")
				}
				if !p.HasFlag("force") {
					t.Error("HasFlag(force) should be true")
				}
			},
		},
		{
			name:    "undeclared trailing flag is boolean",
			args:    []string{"show", "--verbose"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("verbose") {
					t.Error("BoolFlag(verbose) should be true")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"what", "--", "-is", "this"},
			wantSub: "what",
			validate: func(t *testing.T, p *ArgParser) {
				got := strings.Join(p.PositionalFrom(0), " ")
				if got != "what -is this" {
					t.Errorf("PositionalFrom(0) = %q, want %q", got, "what -is this")
				}
			},
		},
		{
			name:    "empty",
			args:    []string{},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 0 {
					t.Errorf("PositionalCount() = %d, want 0", p.PositionalCount())
				}
				if p.Positional(3) != "" {
					t.Error("Positional out of range should be empty")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.boolNames...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"ON", true, false},
		{"0", false, false},
		{"n", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolString(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoolString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBoolString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	if v, err := ParsePositiveInt("3", "n"); err != nil || v != 3 {
		t.Errorf("ParsePositiveInt(3) = %d, %v", v, err)
	}
	for _, bad := range []string{"", "0", "-1", "x"} {
		if _, err := ParsePositiveInt(bad, "n"); err == nil {
			t.Errorf("ParsePositiveInt(%q) should fail", bad)
		}
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		wantErr bool
		check   func(*testing.T, Args)
	}{
		{name: "no args is tui", argv: nil, wantCmd: CmdTUI},
		{name: "plain flag is chat", argv: []string{"--plain"}, wantCmd: CmdChat},
		{name: "chat", argv: []string{"chat"}, wantCmd: CmdChat},
		{name: "version flag", argv: []string{"-v"}, wantCmd: CmdVersion},
		{name: "help flag", argv: []string{"--help"}, wantCmd: CmdHelp},
		{
			name:    "global flags anywhere",
			argv:    []string{"chat", "--model", "gemini-1.5-pro", "--no-speech", "--theme=light"},
			wantCmd: CmdChat,
			check: func(t *testing.T, a Args) {
				if a.Model != "gemini-1.5-pro" {
					t.Errorf("Model = %q", a.Model)
				}
				if !a.NoSpeech {
					t.Error("NoSpeech should be true")
				}
				if a.Theme != "light" {
					t.Errorf("Theme = %q", a.Theme)
				}
			},
		},
		{
			name:    "config path flag",
			argv:    []string{"--config", "/tmp/m.toml"},
			wantCmd: CmdTUI,
			check: func(t *testing.T, a Args) {
				if a.ConfigPath != "/tmp/m.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
			},
		},
		{
			name:    "ask joins question",
			argv:    []string{"ask", "what", "is", "go"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, a Args) {
				if a.Query != "what is go" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:    "config defaults to show",
			argv:    []string{"config"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q", a.Subcommand)
				}
			},
		},
		{
			name:    "config init force",
			argv:    []string{"config", "init", "--force"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "init" || !a.Force {
					t.Errorf("Subcommand = %q, Force = %v", a.Subcommand, a.Force)
				}
			},
		},
		{name: "unknown config subcommand", argv: []string{"config", "nope"}, wantCmd: CmdHelp, wantErr: true},
		{name: "unknown command", argv: []string{"frobnicate"}, wantCmd: CmdHelp, wantErr: true},
		{name: "missing flag value", argv: []string{"--model"}, wantCmd: CmdHelp, wantErr: true},
		{name: "invalid theme", argv: []string{"--theme", "neon"}, wantCmd: CmdHelp, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if cmd != tt.wantCmd {
				t.Errorf("Parse() cmd = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestArgs_Apply(t *testing.T) {
	cfg := config.Default()
	Args{Model: "gemini-1.5-pro", Theme: "DARK", NoSpeech: true}.Apply(cfg)

	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
	if cfg.UI.Theme != config.ThemeDark {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.Speech.Enabled {
		t.Error("speech should be disabled")
	}
}

func TestPrintVersion(t *testing.T) {
	var plain, js strings.Builder
	if err := PrintVersion(&plain, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain.String(), "maverick version "+Version) {
		t.Errorf("plain version output = %q", plain.String())
	}
	if err := PrintVersion(&js, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"version": "`+Version+`"`) {
		t.Errorf("json version output = %q", js.String())
	}
}

func TestPrintUsage(t *testing.T) {
	var b strings.Builder
	PrintUsage(&b)
	for _, want := range []string{"maverick", "ask", "--no-speech", "/speak", "gemini-1.5-flash, gemini-1.5-pro"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestCommandString(t *testing.T) {
	if CmdAsk.String() != "ask" || Command(99).String() != "unknown" {
		t.Error("unexpected Command.String")
	}
}
