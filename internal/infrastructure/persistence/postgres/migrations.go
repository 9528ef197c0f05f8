package postgres

import (
	"context"
	"fmt"
)

// The unique constraint on order_id is what arbitrates concurrent creators;
// Insert relies on it rather than a check-then-insert.
const schema = `
CREATE TABLE IF NOT EXISTS payments (
    id          TEXT PRIMARY KEY,
    order_id    TEXT NOT NULL UNIQUE,
    amount_cents BIGINT NOT NULL,
    currency    TEXT NOT NULL,
    status      TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    paid_at     TIMESTAMPTZ,
    refunded_at TIMESTAMPTZ
);
`

// EnsureSchema creates the payments table if it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
