// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pratik0310/Maverick-Ai/internal/config"
)

// RunConfig handles "config path", "config init" and "config show". path is
// the resolved config file; cfg is the effective config for show.
func RunConfig(args Args, path string, cfg *config.Config, out io.Writer) error {
	switch args.Subcommand {
	case "path":
		fmt.Fprintln(out, path)
		return nil

	case "init":
		if _, err := os.Stat(path); err == nil && !args.Force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config: %w", err)
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(out, "Wrote "+path)
		return nil

	case "show", "":
		shown := cfg.Clone()
		shown.Gemini.APIKey = MaskKey(shown.Gemini.APIKey)
		fmt.Fprintf(out, "# %s\n", path)
		return toml.NewEncoder(out).Encode(shown)
	}
	return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
}

// MaskKey hides all but the first and last four characters of an API key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}
