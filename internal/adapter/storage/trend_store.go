package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"leadscout/internal/domain/trend"
)

// TrendStore implements trend snapshot storage on Postgres.
type TrendStore struct {
	db *pgxpool.Pool
}

// NewTrendStore creates a new trend store.
func NewTrendStore(db *pgxpool.Pool) *TrendStore {
	return &TrendStore{db: db}
}

// ReplaceTrends replaces the snapshot for (tenantID, day) inside one
// transaction: the delete and the inserts commit together, so readers
// never observe a partially written or accidentally emptied snapshot.
// An empty slice still clears the prior set.
func (s *TrendStore) ReplaceTrends(ctx context.Context, tenantID int64, day time.Time, trends []trend.Trend) error {
	insert := `
		INSERT INTO trends (id, tenant_id, word, day, score, sentiment, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	err := s.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM trends WHERE tenant_id = $1 AND day = $2`, tenantID, day); err != nil {
			return fmt.Errorf("deleting prior snapshot: %w", err)
		}
		if len(trends) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, t := range trends {
			batch.Queue(insert, t.ID, t.TenantID, t.Word, t.Day, t.Score, string(t.Sentiment), t.Summary, t.CreatedAt)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range trends {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("inserting trend: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing trends for tenant %d: %w", tenantID, err)
	}
	return nil
}

// GetTrends returns the snapshot for (tenantID, day) ordered by score
// descending, word ascending.
func (s *TrendStore) GetTrends(ctx context.Context, tenantID int64, day time.Time) ([]trend.Trend, error) {
	query := `
		SELECT id, tenant_id, word, day, score, sentiment, summary, created_at
		FROM trends
		WHERE tenant_id = $1 AND day = $2
		ORDER BY score DESC, word ASC
	`

	rows, err := s.db.Query(ctx, query, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("querying trends: %w", err)
	}
	defer rows.Close()

	var trends []trend.Trend
	for rows.Next() {
		var t trend.Trend
		var sentiment string
		var summary *string
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Word, &t.Day, &t.Score, &sentiment, &summary, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning trend: %w", err)
		}
		t.Sentiment = trend.Sentiment(sentiment)
		if summary != nil {
			t.Summary = *summary
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trends: %w", err)
	}

	return trends, nil
}
