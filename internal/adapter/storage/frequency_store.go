package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// FrequencyStore implements per-day word frequency storage on Postgres.
type FrequencyStore struct {
	db *pgxpool.Pool
}

// NewFrequencyStore creates a new frequency store.
func NewFrequencyStore(db *pgxpool.Pool) *FrequencyStore {
	return &FrequencyStore{db: db}
}

// IncrementFrequencies adds each count to the stored frequency of the
// corresponding word for (tenantID, day), creating rows on first
// sighting. The upsert increments the existing row in place, so
// concurrent batches serialize at the row level and no update is lost.
func (s *FrequencyStore) IncrementFrequencies(ctx context.Context, tenantID int64, day time.Time, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	query := `
		INSERT INTO word_frequencies (tenant_id, word, day, frequency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, word, day)
		DO UPDATE SET frequency = word_frequencies.frequency + EXCLUDED.frequency
	`

	return s.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, word := range sortedWords(counts) {
			batch.Queue(query, tenantID, word, day, counts[word])
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range counts {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("incrementing frequency: %w", err)
			}
		}
		return nil
	})
}

// sortedWords returns the batch vocabulary in a fixed order. Concurrent
// batches for the same tenant and day must lock frequency rows in the
// same order, or overlapping vocabularies deadlock each other.
func sortedWords(counts map[string]int) []string {
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// GetFrequencies returns the frequency map for (tenantID, day). A day
// with no recorded words yields an empty map.
func (s *FrequencyStore) GetFrequencies(ctx context.Context, tenantID int64, day time.Time) (map[string]int, error) {
	query := `
		SELECT word, frequency
		FROM word_frequencies
		WHERE tenant_id = $1 AND day = $2
	`

	rows, err := s.db.Query(ctx, query, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("querying word frequencies: %w", err)
	}
	defer rows.Close()

	frequencies := make(map[string]int)
	for rows.Next() {
		var word string
		var frequency int
		if err := rows.Scan(&word, &frequency); err != nil {
			return nil, fmt.Errorf("scanning word frequency: %w", err)
		}
		frequencies[word] = frequency
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating word frequencies: %w", err)
	}

	return frequencies, nil
}
