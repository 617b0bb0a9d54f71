// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeranaias/inkwell/internal/sse"
)

// =============================================================================
// STREAMING
// =============================================================================

// StreamCallback receives each decoded stream event in arrival order.
type StreamCallback func(event sse.Event)

// StreamChat performs a streaming chat-completions request, decoding the
// SSE response through an sse.Parser and invoking the callback for each
// event. The request is forced to Stream=true.
//
// Returns nil once the stream completes (either the [DONE] sentinel or a
// clean EOF). A cancelled context returns ctx.Err(); the callback is not
// invoked for input that arrives after cancellation is observed.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, callback StreamCallback) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req.Stream = true
	if req.Model == "" {
		req.Model = c.model
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	c.logRequest(httpReq)
	start := time.Now()
	resp, err := sharedStreamingClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp.StatusCode, readErrorBody(resp))
	}

	return c.processStream(ctx, resp.Body, callback)
}

// processStream pumps transport chunks through the parser until the
// stream finishes, the body ends, or the context is cancelled.
func (c *Client) processStream(ctx context.Context, body io.Reader, callback StreamCallback) error {
	parser := sse.NewParser()
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, event := range parser.Feed(string(buf[:n])) {
				callback(event)
			}
			if parser.Finished() {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Stream ended without a [DONE] sentinel; the content that
				// arrived is complete as far as the transport knows.
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream read error: %w", err)
		}
	}
}

// StreamChatWithRetry is StreamChat with a retry loop around connection
// establishment. Once streaming has begun, errors are surfaced rather
// than retried: replaying half of a generation into an accumulating
// consumer would duplicate content.
func (c *Client) StreamChatWithRetry(ctx context.Context, req ChatRequest, callback StreamCallback) error {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		started := false
		err := c.StreamChat(ctx, req, func(event sse.Event) {
			started = true
			callback(event)
		})
		if err == nil {
			return nil
		}
		if started || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return errors.New("max retries exceeded")
}
