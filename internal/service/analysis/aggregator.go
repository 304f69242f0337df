package analysis

import (
	"context"
	"fmt"
	"time"

	"leadscout/internal/domain/trend"
)

// Aggregator merges batches of normalized tokens into the stored per-day
// frequency totals. Serialization of concurrent batches is delegated to
// the store's atomic increments, so no lock is held here.
type Aggregator struct {
	store trend.FrequencyStore
}

// NewAggregator creates an aggregator backed by the given store.
func NewAggregator(store trend.FrequencyStore) *Aggregator {
	return &Aggregator{store: store}
}

// CountTokens counts occurrences of each distinct token in a batch.
func CountTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

// Aggregate increments the stored frequency of each distinct token by its
// count within the batch, for (tenantID, day). Re-submitting the same
// batch double-counts; callers must not resubmit.
func (a *Aggregator) Aggregate(ctx context.Context, tenantID int64, day time.Time, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	counts := CountTokens(tokens)
	if err := a.store.IncrementFrequencies(ctx, tenantID, trend.Day(day), counts); err != nil {
		return fmt.Errorf("incrementing word frequencies: %w", err)
	}
	return nil
}
