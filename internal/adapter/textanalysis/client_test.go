package textanalysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/domain/trend"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Contains(t, req.Messages[1].Content, "telefon")

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	return New(Config{BaseURL: baseURL, APIKey: "test-key"})
}

func TestAnalyzeWellFormedResponse(t *testing.T) {
	srv := completionServer(t, "positive|Telefon narxlari tushgani uchun muhokama ko'paydi.")
	defer srv.Close()

	got, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "telefon arzon bo'ldi")
	require.NoError(t, err)
	assert.Equal(t, trend.SentimentPositive, got.Sentiment)
	assert.Equal(t, "Telefon narxlari tushgani uchun muhokama ko'paydi.", got.Summary)
}

func TestAnalyzeCoercesOffLabelSentiment(t *testing.T) {
	srv := completionServer(t, "Very Positive!|Odamlar xursand.")
	defer srv.Close()

	got, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	require.NoError(t, err)
	assert.Equal(t, trend.SentimentNeutral, got.Sentiment)
	assert.Equal(t, "Odamlar xursand.", got.Summary)
}

func TestAnalyzeTrimsAndCasesSentiment(t *testing.T) {
	srv := completionServer(t, " NEGATIVE |Narxlar oshdi.")
	defer srv.Close()

	got, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	require.NoError(t, err)
	assert.Equal(t, trend.SentimentNegative, got.Sentiment)
}

func TestAnalyzeMissingSeparator(t *testing.T) {
	srv := completionServer(t, "the keyword is trending because of discounts")
	defer srv.Close()

	_, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	assert.Error(t, err)
}

func TestAnalyzeEmptySummary(t *testing.T) {
	srv := completionServer(t, "positive|   ")
	defer srv.Close()

	_, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	assert.Error(t, err)
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnalyzeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Analyze(context.Background(), "telefon", "ctx")
	assert.Error(t, err)
}

func TestAnalyzeMissingAPIKey(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:0"})
	_, err := c.Analyze(context.Background(), "telefon", "ctx")
	assert.Error(t, err)
}

func TestParseCompletionSummaryContainingSeparator(t *testing.T) {
	got, err := parseCompletion("neutral|A|B summary")
	require.NoError(t, err)
	assert.Equal(t, trend.SentimentNeutral, got.Sentiment)
	assert.Equal(t, "A|B summary", got.Summary)
}
