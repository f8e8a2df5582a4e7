// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pratik0310/Maverick-Ai/internal/config"
	"github.com/pratik0310/Maverick-Ai/internal/model"
)

const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024
)

// =============================================================================
// REST CLIENT
// =============================================================================

// Client calls the generateContent REST endpoint directly.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a REST client. An empty key yields a client whose
// Generate fails with ErrNotConfigured.
func NewClient(apiKey, modelID string) *Client {
	if modelID == "" {
		modelID = model.DefaultModel
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: config.DefaultBaseURL,
		model:   strings.TrimPrefix(modelID, "models/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit caps outbound requests per minute; 0 disables the cap.
func (c *Client) WithRateLimit(requestsPerMinute int) *Client {
	c.limiter = newLimiter(requestsPerMinute)
	return c
}

// WithLogger sets the logger used for request and response logging.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Model returns the model ID requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key that is
// safe to log.
func (c *Client) KeyFingerprint() string {
	return keyFingerprint(c.apiKey)
}

func keyFingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// endpoint returns the request URL, key included.
func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return fmt.Sprintf("%s/models/%s:generateContent?%s", c.baseURL, url.PathEscape(c.model), q.Encode())
}

// Generate sends the full history and returns the decoded response. It does
// not retry.
func (c *Client) Generate(ctx context.Context, history []model.Message) (*Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(BuildRequest(history))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %s", redact(err.Error(), c.apiKey))
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("gemini request",
		"path", req.URL.Path,
		"model", c.model,
		"messages", len(history),
		"key", c.KeyFingerprint())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", redactURLError(err, c.apiKey))
	}
	defer resp.Body.Close()

	c.logger.Debug("gemini response", "status", resp.StatusCode, "duration", time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeded %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// parseAPIError builds an APIError, pulling the message out of the Google
// error envelope when there is one.
func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{
		Status: status,
		Body:   string(body),
	}
	var env apiErrorResponse
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Code = env.Error.Status
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

// redactURLError strips the API key from the URL that net/http embeds in
// transport errors.
func redactURLError(err error, key string) error {
	var uerr *url.Error
	if key == "" || !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{
		Op:  uerr.Op,
		URL: redact(uerr.URL, key),
		Err: uerr.Err,
	}
}

func redact(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(s, key, "REDACTED")
}
