// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reloads the config file when it changes on disk and delivers each
// successfully validated result, with overrides applied, on Changes. The UI uses it as its appearance
// change notification.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	changes  chan *Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pending   time.Time
	closed    bool
	overrides func(*Config)
}

// NewWatcher watches path for changes. The parent directory is watched rather
// than the file so editors that save by rename are seen too.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		logger:   logger,
		changes:  make(chan *Config, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.processEvents()
	go w.processPending()

	return w, nil
}

// Changes returns the channel of reloaded configurations. It is closed by
// Close.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// WithOverrides sets a hook applied to every reloaded config before it is
// validated and delivered, so command-line settings outlive file edits.
func (w *Watcher) WithOverrides(apply func(*Config)) *Watcher {
	w.mu.Lock()
	w.overrides = apply
	w.mu.Unlock()
	return w
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// processPending reloads once the file has been quiet for the debounce
// interval, so a burst of writes produces one reload.
func (w *Watcher) processPending() {
	defer close(w.changes)

	tick := w.debounce / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous settings", "path", w.path, "error", err)
		return
	}
	w.mu.Lock()
	apply := w.overrides
	w.mu.Unlock()
	if apply != nil {
		apply(cfg)
		if err := cfg.Validate(); err != nil {
			w.logger.Warn("config reload rejected after overrides", "path", w.path, "error", err)
			return
		}
	}
	w.logger.Debug("config reloaded", "path", w.path, "theme", cfg.UI.Theme)

	// Only the newest config matters; drop an unread older one.
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- cfg:
	case <-w.ctx.Done():
	}
}
