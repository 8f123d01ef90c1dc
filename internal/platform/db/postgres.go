package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open initializes a PostgreSQL connection using database/sql and lib/pq.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres DSN")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS airdrops (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		nft_id TEXT NOT NULL,
		is_eligible BOOLEAN NOT NULL DEFAULT FALSE,
		eligible_at BIGINT,
		is_claimed BOOLEAN NOT NULL DEFAULT FALSE,
		claimed_at BIGINT,
		claim_address TEXT,
		is_minted BOOLEAN NOT NULL DEFAULT FALSE,
		minted_at BIGINT,
		mint_tx TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_airdrops_user_id ON airdrops (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_airdrops_nft_id ON airdrops (nft_id)`,
	`CREATE INDEX IF NOT EXISTS idx_airdrops_is_claimed ON airdrops (is_claimed)`,
	`CREATE INDEX IF NOT EXISTS idx_airdrops_is_minted ON airdrops (is_minted)`,
}

// Migrate applies the airdrops schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
