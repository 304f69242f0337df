// Package source contains message and member source adapters for the
// analysis pipeline.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leadscout/internal/domain/chat"
)

const memberPageSize = 200

// ScraperConfig contains configuration for the chat-scraper sidecar
// client.
type ScraperConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ScraperClient talks to the chat-scraper sidecar, which owns the
// long-lived chat session. The client itself holds no session state
// beyond its HTTP client.
type ScraperClient struct {
	cfg        ScraperConfig
	httpClient *http.Client
}

// NewScraperClient creates a scraper client. Missing configuration is an
// error here so a run can never start against an unconfigured source.
func NewScraperClient(cfg ScraperConfig) (*ScraperClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("scraper base URL not configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ScraperClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type messagesResponse struct {
	Messages []chat.Message `json:"messages"`
}

type membersResponse struct {
	Members []chat.Member `json:"members"`
}

// FetchRecentMessages returns up to limit recent text messages from a
// group.
func (c *ScraperClient) FetchRecentMessages(ctx context.Context, group string, limit int) ([]chat.Message, error) {
	endpoint := fmt.Sprintf("%s/groups/%s/messages?limit=%d", c.cfg.BaseURL, url.PathEscape(group), limit)

	var parsed messagesResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("fetching messages for group %q: %w", group, err)
	}
	return parsed.Messages, nil
}

// EachMember streams group members page by page, calling fn for each.
// Iteration stops when fn returns false or the group is exhausted; later
// pages are never requested after an early stop.
func (c *ScraperClient) EachMember(ctx context.Context, group string, fn func(chat.Member) bool) error {
	offset := 0
	for {
		endpoint := fmt.Sprintf("%s/groups/%s/members?limit=%d&offset=%d",
			c.cfg.BaseURL, url.PathEscape(group), memberPageSize, offset)

		var parsed membersResponse
		if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
			return fmt.Errorf("fetching members of group %q: %w", group, err)
		}
		if len(parsed.Members) == 0 {
			return nil
		}
		for _, m := range parsed.Members {
			if !fn(m) {
				return nil
			}
		}
		offset += len(parsed.Members)
	}
}

func (c *ScraperClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling scraper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding scraper response: %w", err)
	}
	return nil
}

var _ chat.MessageSource = (*ScraperClient)(nil)
var _ chat.MemberSource = (*ScraperClient)(nil)
