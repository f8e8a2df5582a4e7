// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for maverick.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MAVERICK_*, GEMINI_API_KEY)
//   - .env in the working directory, then in the config directory
//   - ~/.maverick/config.toml (or the --config path)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireAPIKey(); err != nil {
//	    log.Fatal(err)
//	}
//
// A Watcher delivers a freshly loaded Config whenever the file changes:
//
//	w, _ := config.NewWatcher(path, 200*time.Millisecond, logger)
//	for cfg := range w.Changes() {
//	    applyTheme(cfg.UI.Theme)
//	}
package config
