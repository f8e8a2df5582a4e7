// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pratik0310/Maverick-Ai/internal/config"
)

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch strings.ToLower(cfg.Backend) {
	case config.BackendSDK:
		c, err := NewSDKClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c.WithTimeout(timeout).WithRateLimit(cfg.RequestsPerMinute).WithLogger(logger), nil
	default:
		c := NewClient(cfg.APIKey, cfg.Model).
			WithTimeout(timeout).
			WithRateLimit(cfg.RequestsPerMinute).
			WithLogger(logger)
		if cfg.BaseURL != "" {
			c.WithBaseURL(cfg.BaseURL)
		}
		return c, nil
	}
}
