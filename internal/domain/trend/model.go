package trend

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentiment is the label attached to a trend by the text-analysis service.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// CoerceSentiment maps an arbitrary label to one of the three recognized
// sentiments. Anything unrecognized becomes neutral.
func CoerceSentiment(label string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(label))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// WordFrequency is the per-tenant, per-day count of a normalized word.
// Unique per (TenantID, Word, Day); only ever incremented within a day.
type WordFrequency struct {
	TenantID  int64
	Word      string
	Day       time.Time
	Frequency int
}

// Trend is one entry of a tenant's daily trend snapshot.
type Trend struct {
	ID        string    `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Word      string    `json:"word"`
	Day       time.Time `json:"date"`
	Score     float64   `json:"score"`
	Sentiment Sentiment `json:"sentiment"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredCandidate is a word that passed the trend thresholds but has not
// been enriched or ranked yet. It never leaves the pipeline.
type ScoredCandidate struct {
	Word               string
	TodayFrequency     int
	YesterdayFrequency int
	Score              float64
}

// Enrichment is the sentiment/summary pair produced for one candidate.
type Enrichment struct {
	Sentiment Sentiment
	Summary   string
}

// AnalysisSummary is the result of one full pipeline run.
type AnalysisSummary struct {
	ProcessedMessages int `json:"processed_messages"`
	TrendCount        int `json:"trend_count"`
}

// Common errors
var (
	ErrNotFound = errors.New("not found")

	// ErrNoSource means a run was requested without a usable message source.
	ErrNoSource = errors.New("no message source configured")
)

// Day truncates t to a calendar day in UTC. All frequency and trend keys
// use this form.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FrequencyStore defines storage for per-day word frequencies.
type FrequencyStore interface {
	// IncrementFrequencies adds each count to the stored frequency of the
	// corresponding word for (tenantID, day). Increments from concurrent
	// batches accumulate; none are lost.
	IncrementFrequencies(ctx context.Context, tenantID int64, day time.Time, counts map[string]int) error

	// GetFrequencies returns the frequency map for (tenantID, day). A day
	// with no recorded words yields an empty map, not an error.
	GetFrequencies(ctx context.Context, tenantID int64, day time.Time) (map[string]int, error)
}

// Store defines storage for trend snapshots.
type Store interface {
	// ReplaceTrends atomically replaces the snapshot for (tenantID, day)
	// with the given trends. An empty slice still clears the prior set.
	ReplaceTrends(ctx context.Context, tenantID int64, day time.Time, trends []Trend) error

	// GetTrends returns the snapshot for (tenantID, day) ordered by score
	// descending, word ascending.
	GetTrends(ctx context.Context, tenantID int64, day time.Time) ([]Trend, error)
}

// Analyzer is the external text-analysis collaborator.
type Analyzer interface {
	// Analyze returns a sentiment label and a one-sentence summary for the
	// keyword given the surrounding message context.
	Analyze(ctx context.Context, keyword, contextText string) (Enrichment, error)
}
