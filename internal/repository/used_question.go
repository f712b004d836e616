package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsedQuestionRepository is the per-day log of already delivered question
// texts. Rows are append-only within a day and pruned past a retention
// window by the nightly job.
type UsedQuestionRepository struct {
	db *pgxpool.Pool
}

func NewUsedQuestionRepository(db *pgxpool.Pool) *UsedQuestionRepository {
	return &UsedQuestionRepository{db: db}
}

// IsUsed reports whether the question text was already sent on the given date.
func (r *UsedQuestionRepository) IsUsed(ctx context.Context, date, question string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM used_questions
			WHERE date_utc = $1 AND question_text = $2
		)
	`

	var used bool
	if err := r.db.QueryRow(ctx, query, date, question).Scan(&used); err != nil {
		return false, fmt.Errorf("check used question: %w", err)
	}

	return used, nil
}

// MarkUsed records the question text for the given date.
func (r *UsedQuestionRepository) MarkUsed(ctx context.Context, date, question string) error {
	query := `
		INSERT INTO used_questions (date_utc, question_text)
		VALUES ($1, $2)
		ON CONFLICT (date_utc, question_text) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, date, question); err != nil {
		return fmt.Errorf("mark question used: %w", err)
	}

	return nil
}

// PruneBefore deletes log entries older than the cutoff date and returns how
// many rows were removed.
func (r *UsedQuestionRepository) PruneBefore(ctx context.Context, cutoff string) (int64, error) {
	query := `
		DELETE FROM used_questions
		WHERE date_utc < $1
	`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune used questions: %w", err)
	}

	return tag.RowsAffected(), nil
}
