// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pratik0310/Maverick-Ai/internal/conversation"
	"github.com/pratik0310/Maverick-Ai/internal/gemini"
)

// maxStdinQuery bounds a question read from stdin.
const maxStdinQuery = 1 << 20

// ErrNoQuery is returned by ask when there is nothing to send.
var ErrNoQuery = errors.New("no question given")

// AskOptions configures a one-shot question.
type AskOptions struct {
	Generator gemini.Generator
	Renderer  *Renderer
	// Stdin is read when the query is empty
	Stdin io.Reader
	Out   io.Writer
}

// RunAsk sends query as a one-message conversation and prints the reply.
// A failed request returns an error carrying the user-facing text.
func RunAsk(ctx context.Context, ctrl *conversation.Controller, query string, opts AskOptions) error {
	query = strings.TrimSpace(query)
	if query == "" && opts.Stdin != nil {
		data, err := io.ReadAll(io.LimitReader(opts.Stdin, maxStdinQuery))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		query = strings.TrimSpace(string(data))
	}
	if query == "" {
		return ErrNoQuery
	}
	if opts.Generator == nil {
		return errors.New(conversation.ErrorText)
	}

	ctrl.Send(ctx, opts.Generator, query)

	state := ctrl.State()
	if state.HasError() {
		return errors.New(state.LastError)
	}
	reply, ok := ctrl.LastReply()
	if !ok {
		return errors.New(conversation.ErrorText)
	}
	fmt.Fprintln(opts.Out, opts.Renderer.Render(reply.Text))
	return nil
}
