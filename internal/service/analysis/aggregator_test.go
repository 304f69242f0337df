package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/domain/trend"
)

// fakeFrequencyStore is an in-memory trend.FrequencyStore with the same
// accumulate-only contract as the Postgres implementation.
type fakeFrequencyStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int
	err    error
}

func newFakeFrequencyStore() *fakeFrequencyStore {
	return &fakeFrequencyStore{counts: make(map[string]map[string]int)}
}

func freqKey(tenantID int64, day time.Time) string {
	return fmt.Sprintf("%d/%s", tenantID, day.Format("2006-01-02"))
}

func (s *fakeFrequencyStore) IncrementFrequencies(_ context.Context, tenantID int64, day time.Time, counts map[string]int) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := freqKey(tenantID, day)
	if s.counts[key] == nil {
		s.counts[key] = make(map[string]int)
	}
	for word, n := range counts {
		s.counts[key][word] += n
	}
	return nil
}

func (s *fakeFrequencyStore) GetFrequencies(_ context.Context, tenantID int64, day time.Time) (map[string]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int)
	for word, n := range s.counts[freqKey(tenantID, day)] {
		out[word] = n
	}
	return out, nil
}

func TestCountTokens(t *testing.T) {
	counts := CountTokens([]string{"narx", "telefon", "narx", "narx"})
	assert.Equal(t, map[string]int{"narx": 3, "telefon": 1}, counts)

	assert.Empty(t, CountTokens(nil))
}

func TestAggregateOrderIndependent(t *testing.T) {
	ctx := context.Background()
	day := trend.Day(time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC))

	b1 := []string{"narx", "narx", "telefon"}
	b2 := []string{"telefon", "chegirma"}
	merged := append(append([]string{}, b1...), b2...)

	storeA := newFakeFrequencyStore()
	aggA := NewAggregator(storeA)
	require.NoError(t, aggA.Aggregate(ctx, 1, day, b1))
	require.NoError(t, aggA.Aggregate(ctx, 1, day, b2))

	storeB := newFakeFrequencyStore()
	aggB := NewAggregator(storeB)
	require.NoError(t, aggB.Aggregate(ctx, 1, day, b2))
	require.NoError(t, aggB.Aggregate(ctx, 1, day, b1))

	storeC := newFakeFrequencyStore()
	aggC := NewAggregator(storeC)
	require.NoError(t, aggC.Aggregate(ctx, 1, day, merged))

	want, err := storeC.GetFrequencies(ctx, 1, day)
	require.NoError(t, err)

	gotA, err := storeA.GetFrequencies(ctx, 1, day)
	require.NoError(t, err)
	gotB, err := storeB.GetFrequencies(ctx, 1, day)
	require.NoError(t, err)

	assert.Equal(t, want, gotA)
	assert.Equal(t, want, gotB)
}

func TestAggregateConcurrentBatchesLoseNothing(t *testing.T) {
	ctx := context.Background()
	day := trend.Day(time.Now())
	store := newFakeFrequencyStore()
	agg := NewAggregator(store)

	const workers = 16
	const perBatch = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]string, 0, perBatch*2)
			for j := 0; j < perBatch; j++ {
				batch = append(batch, "narx", "telefon")
			}
			assert.NoError(t, agg.Aggregate(ctx, 7, day, batch))
		}()
	}
	wg.Wait()

	got, err := store.GetFrequencies(ctx, 7, day)
	require.NoError(t, err)
	assert.Equal(t, workers*perBatch, got["narx"])
	assert.Equal(t, workers*perBatch, got["telefon"])
}

func TestAggregateEmptyBatchIsNoop(t *testing.T) {
	store := newFakeFrequencyStore()
	agg := NewAggregator(store)

	require.NoError(t, agg.Aggregate(context.Background(), 1, trend.Day(time.Now()), nil))
	assert.Empty(t, store.counts)
}

func TestAggregateKeysSeparateDays(t *testing.T) {
	ctx := context.Background()
	store := newFakeFrequencyStore()
	agg := NewAggregator(store)

	today := trend.Day(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	yesterday := today.AddDate(0, 0, -1)

	require.NoError(t, agg.Aggregate(ctx, 1, yesterday, []string{"narx"}))
	require.NoError(t, agg.Aggregate(ctx, 1, today, []string{"narx", "narx"}))

	gotYesterday, err := store.GetFrequencies(ctx, 1, yesterday)
	require.NoError(t, err)
	gotToday, err := store.GetFrequencies(ctx, 1, today)
	require.NoError(t, err)

	assert.Equal(t, 1, gotYesterday["narx"])
	assert.Equal(t, 2, gotToday["narx"])
}
