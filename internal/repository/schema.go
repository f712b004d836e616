package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the state tables if they don't exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS bot_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS used_questions (
			date_utc      DATE NOT NULL,
			question_text TEXT NOT NULL,
			sent_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (date_utc, question_text)
		)
		`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
