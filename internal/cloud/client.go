// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the default chat-completions endpoint base.
	DefaultBaseURL = "https://api.moonshot.cn/v1"

	// DefaultModel is used when the config does not name one.
	DefaultModel = "moonshot-v1-32k"

	// DefaultTemperature matches the editing workload: low variance keeps
	// rewrites close to the source text.
	DefaultTemperature = 0.3

	// DefaultTimeout bounds non-streaming requests. Streaming requests are
	// bounded by their context instead.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the retry budget for transient transport errors.
	DefaultMaxRetries = 3

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second

	// MaxErrorBodySize limits how much of an error response body is read.
	MaxErrorBodySize = 1 * 1024 * 1024
)

var (
	// sharedStreamingClient pools connections for streaming requests.
	// No client timeout: lifetime is controlled by the request context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("chat API key not configured")

	// ErrRateLimited indicates the endpoint rejected the request for quota.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a structured non-2xx response body: {code, message, data}.
type APIError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Status  int             `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// RateLimitError is the distinguished 429 subtype carrying the limiting
// window and quota, surfaced to the user as a notice rather than a
// generic failure.
type RateLimitError struct {
	Window int // limiting window in seconds
	Limit  int // allowed requests per window
}

// WindowHours returns the limiting window in hours.
func (e *RateLimitError) WindowHours() float64 {
	return float64(e.Window) / 3600
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %d requests per %g hour(s)", e.Limit, e.WindowHours())
}

// Is allows errors.Is(err, ErrRateLimited) to match.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// rateLimitBody is the 429 response shape: {rate_limit: {window, limit}}.
type rateLimitBody struct {
	RateLimit *struct {
		Window int `json:"window"`
		Limit  int `json:"limit"`
	} `json:"rate_limit"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatMessage is a single message in a chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// ChatRequest is the chat-completions request body.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a client with the given API key. An empty key still
// produces a usable value; requests fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxRetries: DefaultMaxRetries,
		// Client-side throttle: generation is user-triggered, so a small
		// burst over a steady trickle covers regenerate mashing without
		// tripping the server limiter.
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// WithBaseURL sets a custom endpoint base URL.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel sets the model used for requests.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

// WithMaxRetries sets the retry budget for transient errors.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithRateLimit overrides the client-side request throttle.
func (c *Client) WithRateLimit(interval time.Duration, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Every(interval), burst)
	return c
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// setHeaders sets the headers common to all requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "inkwell/0.1")
}

// logRequest logs a request line without headers or body; either may
// carry credentials or document text.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d (%v)", resp.StatusCode, duration)
}

// =============================================================================
// ERROR RESPONSE HANDLING
// =============================================================================

// handleErrorResponse converts a non-2xx response into a typed error.
// 429 with a structured quota body becomes a RateLimitError; any JSON
// {code, message, data} body becomes an APIError; everything else falls
// back to a bare APIError with the raw body as message.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	if statusCode == http.StatusTooManyRequests {
		var rl rateLimitBody
		if err := json.Unmarshal(body, &rl); err == nil && rl.RateLimit != nil {
			return &RateLimitError{
				Window: rl.RateLimit.Window,
				Limit:  rl.RateLimit.Limit,
			}
		}
		return ErrRateLimited
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		apiErr.Status = statusCode
		return &apiErr
	}

	return &APIError{
		Message: strings.TrimSpace(string(body)),
		Status:  statusCode,
	}
}

// readErrorBody reads a bounded amount of an error response body.
func readErrorBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
	return body
}

// =============================================================================
// RETRY SUPPORT
// =============================================================================

// calculateBackoff returns the delay before the next retry attempt.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// isRetryable reports whether an error is worth retrying. Client errors
// (4xx) and cancelled contexts are not; 5xx and network errors are.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	if errors.Is(err, ErrRateLimited) {
		// The user sees the quota notice instead; retrying would burn it.
		return false
	}
	return true
}
