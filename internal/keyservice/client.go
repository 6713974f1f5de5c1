package keyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"scandoc/pkg/platform/sentinel"
)

const requestTimeout = 10 * time.Second

// Client talks to the key service. Authentication and refresh are split so
// the retry wrapper can invoke the cheap recovery path without resubmitting
// the long-lived user key.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Authenticate exchanges the user key and sub-client id for a token pair.
func (c *Client) Authenticate(ctx context.Context, userKey, subClient string) (Credentials, error) {
	var resp authenticateResponse
	err := c.post(ctx, "authenticate/", authenticateRequest{
		UserKey:   userKey,
		SubClient: subClient,
	}, &resp)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Refresh exchanges the refresh token for a new access token. The refresh
// token itself is not rotated.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp refreshResponse
	err := c.post(ctx, "authenticate/refresh", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("key service %s: %w", path, sentinel.ErrBadURL)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("key service %s: %w", path, sentinel.ErrBadURL)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("key service %s: %w", path, sentinel.ErrBadServerResponse)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key service %s: status %d: %w", path, resp.StatusCode, sentinel.ErrBadServerResponse)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("key service %s: %w", path, sentinel.ErrCannotParseResponse)
	}
	return nil
}
