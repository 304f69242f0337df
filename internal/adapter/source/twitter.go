package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"leadscout/internal/domain/chat"
)

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// TwitterSource exposes X/Twitter recent search as a message source, so
// a tenant can monitor brand mentions next to chat groups. The group
// identifier is the search query.
type TwitterSource struct {
	client *twitter.Client
}

// NewTwitterSource creates a mention source using a bearer token.
func NewTwitterSource(bearerToken string) (*TwitterSource, error) {
	if bearerToken == "" {
		return nil, fmt.Errorf("twitter bearer token not configured")
	}
	return &TwitterSource{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client: &http.Client{
				Timeout: 15 * time.Second,
			},
			Host: "https://api.twitter.com",
		},
	}, nil
}

// FetchRecentMessages runs a recent search for query and maps tweets to
// chat messages. The recent-search endpoint accepts 10 to 100 results.
func (s *TwitterSource) FetchRecentMessages(ctx context.Context, query string, limit int) ([]chat.Message, error) {
	if limit < 10 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	resp, err := s.client.TweetRecentSearch(ctx, query, twitter.TweetRecentSearchOpts{
		MaxResults:  limit,
		TweetFields: []twitter.TweetField{twitter.TweetFieldCreatedAt},
	})
	if err != nil {
		return nil, fmt.Errorf("searching recent tweets for %q: %w", query, err)
	}

	messages := make([]chat.Message, 0, len(resp.Raw.Tweets))
	for _, tw := range resp.Raw.Tweets {
		if tw == nil || tw.Text == "" {
			continue
		}
		id, _ := strconv.ParseInt(tw.ID, 10, 64)
		sentAt, _ := time.Parse(time.RFC3339, tw.CreatedAt)
		messages = append(messages, chat.Message{
			ID:      id,
			Content: tw.Text,
			SentAt:  sentAt,
		})
	}
	return messages, nil
}

var _ chat.MessageSource = (*TwitterSource)(nil)
