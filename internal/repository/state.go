package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Keys of the persisted scheduler state entries.
const (
	keySentCount  = "sent_count"      // quizzes sent today
	keyLastReset  = "last_reset_date" // date the daily counter was last zeroed
	keyLastSlot   = "last_slot"       // last slot a send was attempted for
	keyBankCursor = "bank_cursor"     // next index into the local question bank
)

// StateRepository stores the scheduler's small persistent values in a
// key/value table. Reads of missing keys return zero values, writes are
// last-write-wins upserts.
type StateRepository struct {
	db *pgxpool.Pool
}

func NewStateRepository(db *pgxpool.Pool) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM bot_state
		WHERE key = $1
	`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %q: %w", key, err)
	}

	return value, nil
}

func (r *StateRepository) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO bot_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}

	return nil
}

func (r *StateRepository) getInt(ctx context.Context, key string) (int, error) {
	value, err := r.get(ctx, key)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse state %q: %w", key, err)
	}

	return n, nil
}

// SentCount returns the number of quizzes sent today, 0 if never written.
func (r *StateRepository) SentCount(ctx context.Context) (int, error) {
	return r.getInt(ctx, keySentCount)
}

func (r *StateRepository) SetSentCount(ctx context.Context, n int) error {
	return r.set(ctx, keySentCount, strconv.Itoa(n))
}

// LastResetDate returns the date (YYYY-MM-DD) the counter was last reset,
// empty if never.
func (r *StateRepository) LastResetDate(ctx context.Context) (string, error) {
	return r.get(ctx, keyLastReset)
}

func (r *StateRepository) SetLastResetDate(ctx context.Context, date string) error {
	return r.set(ctx, keyLastReset, date)
}

// LastSlot returns the last slot key a send was attempted for, empty if never.
func (r *StateRepository) LastSlot(ctx context.Context) (string, error) {
	return r.get(ctx, keyLastSlot)
}

func (r *StateRepository) SetLastSlot(ctx context.Context, slot string) error {
	return r.set(ctx, keyLastSlot, slot)
}

// BankCursor returns the next index into the local question bank.
func (r *StateRepository) BankCursor(ctx context.Context) (int, error) {
	return r.getInt(ctx, keyBankCursor)
}

func (r *StateRepository) SetBankCursor(ctx context.Context, n int) error {
	return r.set(ctx, keyBankCursor, strconv.Itoa(n))
}
