// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/pratik0310/Maverick-Ai/internal/model"
)

// =============================================================================
// SDK CLIENT
// =============================================================================

// SDKClient implements Generator over the official Go SDK. Each call starts
// a fresh chat session seeded with all but the last message.
type SDKClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	modelID string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSDKClient creates an SDK-backed client.
func NewSDKClient(ctx context.Context, apiKey, modelID string, opts ...option.ClientOption) (*SDKClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if modelID == "" {
		modelID = model.DefaultModel
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelID = strings.TrimPrefix(modelID, "models/")
	return &SDKClient{
		client:  client,
		model:   client.GenerativeModel(modelID),
		modelID: modelID,
		apiKey:  apiKey,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}, nil
}

// WithTimeout bounds each Generate call.
func (c *SDKClient) WithTimeout(timeout time.Duration) *SDKClient {
	c.timeout = timeout
	return c
}

// WithRateLimit caps outbound requests per minute; 0 disables the cap.
func (c *SDKClient) WithRateLimit(requestsPerMinute int) *SDKClient {
	c.limiter = newLimiter(requestsPerMinute)
	return c
}

// WithLogger sets the logger used for request logging.
func (c *SDKClient) WithLogger(logger *slog.Logger) *SDKClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Model returns the model ID requests are sent to.
func (c *SDKClient) Model() string {
	return c.modelID
}

// Close releases the underlying SDK client.
func (c *SDKClient) Close() error {
	return c.client.Close()
}

// Generate sends the history through a chat session and converts the SDK
// response into a Response.
func (c *SDKClient) Generate(ctx context.Context, history []model.Message) (*Response, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cs := c.model.StartChat()
	cs.History = toSDKHistory(history[:len(history)-1])
	last := history[len(history)-1]

	c.logger.Debug("gemini sdk request",
		"model", c.modelID,
		"messages", len(history),
		"key", keyFingerprint(c.apiKey))

	start := time.Now()
	resp, err := cs.SendMessage(ctx, genai.Text(last.Text))
	if blocked, ok := blockedResponse(err); ok {
		c.logger.Warn("gemini sdk response blocked", "reason", err.Error())
		return blocked, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gemini SDK error: %w", err)
	}
	c.logger.Debug("gemini sdk response", "candidates", len(resp.Candidates), "duration", time.Since(start))

	return fromSDKResponse(resp), nil
}

// blockedResponse turns a safety or recitation block into the response the
// REST endpoint would have produced for the same body: a 200 whose text is
// missing. Other errors are left alone.
func blockedResponse(err error) (*Response, bool) {
	var blocked *genai.BlockedError
	if !errors.As(err, &blocked) {
		return nil, false
	}
	if blocked.Candidate == nil {
		return &Response{}, true
	}
	return fromSDKResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{blocked.Candidate},
	}), true
}

func toSDKHistory(history []model.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		out = append(out, &genai.Content{
			Role:  string(m.Role),
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}
	return out
}

// fromSDKResponse keeps candidate and part positions; non-text parts become
// empty text parts so the first-part rule still applies.
func fromSDKResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		c := Candidate{FinishReason: cand.FinishReason.String()}
		if cand.Content != nil {
			c.Content.Role = cand.Content.Role
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					c.Content.Parts = append(c.Content.Parts, Part{Text: string(t)})
				} else {
					c.Content.Parts = append(c.Content.Parts, Part{})
				}
			}
		}
		out.Candidates = append(out.Candidates, c)
	}
	if u := resp.UsageMetadata; u != nil {
		out.UsageMetadata = &UsageMetadata{
			PromptTokenCount:     int(u.PromptTokenCount),
			CandidatesTokenCount: int(u.CandidatesTokenCount),
			TotalTokenCount:      int(u.TotalTokenCount),
		}
	}
	return out
}
