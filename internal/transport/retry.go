// Package transport wraps verification-service calls with the
// refresh-once-on-401 policy shared by validation and extraction.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"scandoc/internal/session"
	"scandoc/pkg/platform/sentinel"
)

// Refresher is the narrow slice of the key service the wrapper needs.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Client issues authorized JSON POSTs. Each verification client owns one,
// configured with its own request timeout.
type Client struct {
	http      *http.Client
	tokens    *session.Store
	refresher Refresher
}

func NewClient(httpClient *http.Client, tokens *session.Store, refresher Refresher) *Client {
	return &Client{http: httpClient, tokens: tokens, refresher: refresher}
}

// Tokens exposes the credential store for request construction.
func (c *Client) Tokens() *session.Store { return c.tokens }

// Do posts payload to endpoint with the current access token and decodes the
// 200 body into T. On a 401 while on the first attempt it performs exactly one
// refresh-and-retry cycle; the retried attempt is terminal, so a second 401 or
// a failed refresh yields ErrUnableToAuthenticate and no third request is
// issued. Any other non-200 status yields ErrBadServerResponse.
func Do[T any](ctx context.Context, c *Client, endpoint string, payload any) (T, error) {
	var zero T
	body, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("encode request: %w", err)
	}

	retried := false
	for {
		status, data, err := c.send(ctx, endpoint, body)
		if err != nil {
			return zero, err
		}
		switch {
		case status == http.StatusOK:
			var out T
			if err := json.Unmarshal(data, &out); err != nil {
				return zero, fmt.Errorf("decode response: %w", sentinel.ErrCannotParseResponse)
			}
			return out, nil
		case status == http.StatusUnauthorized && !retried:
			refreshToken := c.tokens.Snapshot().RefreshToken
			access, err := c.refresher.Refresh(ctx, refreshToken)
			if err != nil {
				return zero, fmt.Errorf("refresh after 401: %w", sentinel.ErrUnableToAuthenticate)
			}
			c.tokens.SetAccessToken(access)
			retried = true
		case status == http.StatusUnauthorized:
			return zero, fmt.Errorf("401 after refresh: %w", sentinel.ErrUnableToAuthenticate)
		default:
			return zero, fmt.Errorf("status %d: %w", status, sentinel.ErrBadServerResponse)
		}
	}
}

func (c *Client) send(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", sentinel.ErrBadURL)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// The verification service expects the raw token, no "Bearer " prefix.
	req.Header.Set("Authorization", c.tokens.Snapshot().AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", sentinel.ErrBadServerResponse)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", sentinel.ErrBadServerResponse)
	}
	return resp.StatusCode, data, nil
}
