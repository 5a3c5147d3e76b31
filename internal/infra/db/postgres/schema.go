package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables this service owns. Idempotent; used by
// cmd/seed and the integration test harness.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS codes (
    id          UUID PRIMARY KEY,
    token       TEXT NOT NULL UNIQUE,
    quota       INT NOT NULL CHECK (quota >= 1),
    used_count  INT NOT NULL DEFAULT 0 CHECK (used_count >= 0 AND used_count <= quota),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS content_items (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL DEFAULT '',
    price       NUMERIC(10,2) NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS usage_records (
    id          TEXT PRIMARY KEY,
    code_id     UUID NOT NULL REFERENCES codes(id),
    content_id  UUID NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_usage_records_code ON usage_records(code_id);

CREATE TABLE IF NOT EXISTS payment_receipts (
    id               TEXT PRIMARY KEY,
    code_id          UUID NOT NULL REFERENCES codes(id),
    slip_fingerprint TEXT NOT NULL UNIQUE,
    amount           NUMERIC(10,2) NOT NULL,
    evidence         JSONB,
    status           TEXT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := pool.Exec(ctx, ddl)
	return err
}
