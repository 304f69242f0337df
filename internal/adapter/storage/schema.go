package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS word_frequencies (
	tenant_id BIGINT NOT NULL,
	word TEXT NOT NULL,
	day DATE NOT NULL,
	frequency INTEGER NOT NULL DEFAULT 0 CHECK (frequency >= 0),
	PRIMARY KEY (tenant_id, word, day)
);

CREATE TABLE IF NOT EXISTS trends (
	id UUID PRIMARY KEY,
	tenant_id BIGINT NOT NULL,
	word TEXT NOT NULL,
	day DATE NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	sentiment TEXT NOT NULL,
	summary TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_trends_tenant_day ON trends (tenant_id, day);
`

// InitSchema creates the frequency and trend tables if they do not exist.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}
