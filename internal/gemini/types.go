// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/model"
)

// Error variables for common generation failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = config.ErrNotConfigured

	// ErrEmptyHistory indicates Generate was called with no messages.
	ErrEmptyHistory = errors.New("conversation history is empty")

	// ErrMalformedResponse indicates the response body was not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrResponseTooLarge indicates the body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// Generator produces a reply for an ordered conversation history. The last
// message is the one being answered.
type Generator interface {
	Generate(ctx context.Context, history []model.Message) (*Response, error)
}

// Backend is a Generator that holds resources.
type Backend interface {
	Generator
	io.Closer
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Part is one piece of message content. Only text parts are produced.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is a role-tagged list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the body of a generateContent call.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// UsageMetadata reports token counts for a call.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Response is the decoded result of a generateContent call.
type Response struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// Text returns the first candidate's first part text. ok is false when that
// path is missing or the text is empty.
func (r *Response) Text() (text string, ok bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}

// BuildRequest converts a message history into the wire request, preserving
// order and roles.
func BuildRequest(history []model.Message) GenerateRequest {
	req := GenerateRequest{Contents: make([]Content, 0, len(history))}
	for _, m := range history {
		req.Contents = append(req.Contents, Content{
			Role:  string(m.Role),
			Parts: []Part{{Text: m.Text}},
		})
	}
	return req
}

// =============================================================================
// API ERROR
// =============================================================================

// APIError is a non-2xx response from the generation API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("gemini API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
		}
		return fmt.Sprintf("gemini API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gemini API error (HTTP %d)", e.Status)
}

// apiErrorResponse is the error envelope returned by Google APIs.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
