package postgres

import (
	"context"
	"fmt"
)

// The PRIMARY KEY on transactions.id is load-bearing: the ingest pipeline's
// idempotency rests on the store rejecting duplicate provider transaction IDs.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	// Seed row for the single implicit user.
	`INSERT INTO users (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS plaid_items (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL DEFAULT 1 REFERENCES users(id),
		access_token TEXT NOT NULL DEFAULT '',
		access_token_enc TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		subtype TEXT NOT NULL DEFAULT '',
		mask TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		description TEXT NOT NULL,
		merchant TEXT,
		amount NUMERIC(18,4) NOT NULL,
		currency TEXT NOT NULL DEFAULT '',
		posted_at DATE NOT NULL,
		raw_category TEXT,
		category TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_posted_at ON transactions (posted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions (account_id)`,
	`CREATE TABLE IF NOT EXISTS ingest_runs (
		id UUID PRIMARY KEY,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		total_items INT NOT NULL,
		total_fetched INT NOT NULL,
		total_inserted INT NOT NULL,
		total_categorized INT NOT NULL,
		error_count INT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the tables and the single-user seed row if missing.
// Statements are idempotent, so running at every startup is safe.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
