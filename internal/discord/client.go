// Package discord fetches guild entities from the Discord REST API.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/services/auth"
)

const (
	discordBaseURL    = "https://discord.com/api/v10"
	discordTimeout    = 30 * time.Second
	discordTokenStore = "discord"
	userAgent         = "DiscordBot (https://github.com/baneslab/guildkeys, 1.0)"
)

// Compile-time check that Client satisfies domain.Source.
var _ domain.Source = (*Client)(nil)

// Client is a minimal Discord REST client authenticated with a bot token.
// It only reads; nothing in the guild is modified.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: discordBaseURL,
		client:  &http.Client{Timeout: discordTimeout},
	}
}

// FromStore creates a Client using the bot token saved by
// "guildkeys auth login discord".
func FromStore(store auth.Store) (*Client, error) {
	token, err := store.GetToken(discordTokenStore)
	if err != nil {
		return nil, fmt.Errorf("discord auth: token not found (run 'guildkeys auth login discord'): %w", err)
	}
	return NewClient(token), nil
}

// apiError is the error body Discord returns with non-2xx responses.
type apiError struct {
	Code       int     `json:"code"`
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after,omitempty"`
}

// statusError maps an HTTP status and Discord error body to a domain
// sentinel where one applies.
func statusError(status int, body apiError) error {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if body.Code != 0 {
		msg = fmt.Sprintf("[%d] %s", body.Code, msg)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusTooManyRequests:
		if body.RetryAfter > 0 {
			msg = fmt.Sprintf("%s (retry after %.1fs)", msg, body.RetryAfter)
		}
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	}
	return fmt.Errorf("discord: HTTP %d: %s", status, msg)
}

// getJSON performs an authenticated GET and decodes the response into
// out. Non-2xx responses become errors via statusError.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("discord: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body apiError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &body)
		if body.Message == "" {
			body.Message = strings.TrimSpace(string(data))
		}
		return statusError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("discord: failed to decode response: %w", err)
	}
	return nil
}
