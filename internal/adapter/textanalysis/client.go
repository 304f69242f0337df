// Package textanalysis is a client for the chat-completions text-analysis
// service that labels trending keywords with a sentiment and a
// one-sentence summary.
package textanalysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadscout/internal/domain/trend"
)

const systemPrompt = "You are an expert text analyst. The user will provide a keyword and a set of related text messages in Uzbek. " +
	"Your task is to perform two things:\n" +
	"1. Sentiment Analysis: Determine the overall sentiment of the messages related to the keyword. Respond with only one word: 'positive', 'negative', or 'neutral'.\n" +
	"2. Summarization: Provide a concise, one-sentence summary in Uzbek that explains why the keyword is trending.\n" +
	"Format your response as follows: SENTIMENT|SUMMARY"

// Config contains configuration for the text-analysis client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls a chat-completions API to analyze keyword context.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a text-analysis client. An empty API key is allowed; calls
// will fail and the pipeline degrades them to the neutral default.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze requests a sentiment label and summary for keyword given the
// surrounding contextText. Transport failures, non-200 responses and
// responses that do not split into the SENTIMENT|SUMMARY shape are
// returned as errors; off-label sentiments in an otherwise well-formed
// response are coerced to neutral.
func (c *Client) Analyze(ctx context.Context, keyword, contextText string) (trend.Enrichment, error) {
	if c.cfg.APIKey == "" {
		return trend.Enrichment{}, fmt.Errorf("text-analysis API key not configured")
	}

	userPrompt := fmt.Sprintf("Keyword: %q\n\nMessages:\n\"\"\"\n%s\n\"\"\"", keyword, contextText)
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return trend.Enrichment{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return trend.Enrichment{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return trend.Enrichment{}, fmt.Errorf("calling text-analysis service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return trend.Enrichment{}, fmt.Errorf("text-analysis service returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return trend.Enrichment{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return trend.Enrichment{}, fmt.Errorf("response contains no choices")
	}

	return parseCompletion(parsed.Choices[0].Message.Content)
}

// parseCompletion splits the model output into its sentiment and summary
// parts. Output without the separator is unparsable.
func parseCompletion(content string) (trend.Enrichment, error) {
	parts := strings.SplitN(content, "|", 2)
	if len(parts) != 2 {
		return trend.Enrichment{}, fmt.Errorf("unexpected completion shape: %q", content)
	}
	summary := strings.TrimSpace(parts[1])
	if summary == "" {
		return trend.Enrichment{}, fmt.Errorf("completion has empty summary")
	}
	return trend.Enrichment{
		Sentiment: trend.CoerceSentiment(parts[0]),
		Summary:   summary,
	}, nil
}
