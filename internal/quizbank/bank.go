package quizbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

var (
	ErrEmptyBank = errors.New("question bank is empty")

	// ErrBankExhausted means every bank entry was rejected by validation.
	ErrBankExhausted = errors.New("no sendable question in bank")
)

// CursorStore persists the bank's read position across restarts.
type CursorStore interface {
	BankCursor(ctx context.Context) (int, error)
	SetBankCursor(ctx context.Context, n int) error
}

type bankQuestion struct {
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	CorrectOptionID int      `json:"correct_option_id"`
	Explanation     string   `json:"explanation"`
}

// Bank serves questions from a bundled JSON file in order, wrapping around
// at the end. The cursor survives restarts via the state store. Entries
// exceeding Telegram's poll limits are skipped with a log line, the way
// the bot has always treated oversized bank questions.
type Bank struct {
	questions []entities.QuizItem
	cursor    CursorStore
	logger    *zap.Logger
}

// Load reads the question bank from the given JSON file.
func Load(path string, cursor CursorStore, logger *zap.Logger) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var entries []bankQuestion
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBank
	}

	questions := make([]entities.QuizItem, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, entities.QuizItem{
			Question:     e.Question,
			Options:      e.Options,
			CorrectIndex: e.CorrectOptionID,
			Explanation:  e.Explanation,
		})
	}

	logger.Info("question bank loaded",
		zap.String("path", path),
		zap.Int("questions", len(questions)),
	)

	return &Bank{
		questions: questions,
		cursor:    cursor,
		logger:    logger,
	}, nil
}

// Len returns the total number of bank entries.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Fetch returns the next sendable question and advances the persisted
// cursor past it.
func (b *Bank) Fetch(ctx context.Context) (*entities.QuizItem, error) {
	start, err := b.cursor.BankCursor(ctx)
	if err != nil {
		return nil, err
	}

	total := len(b.questions)
	for i := 0; i < total; i++ {
		idx := ((start + i) % total + total) % total
		item := b.questions[idx]

		if err := item.Validate(); err != nil {
			b.logger.Warn("skipping bank question",
				zap.Int("index", idx),
				zap.Error(err),
			)
			continue
		}

		if err := b.cursor.SetBankCursor(ctx, (idx+1)%total); err != nil {
			return nil, err
		}

		return item.Clone(), nil
	}

	return nil, ErrBankExhausted
}
