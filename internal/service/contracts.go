package service

import (
	"context"
	"time"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

// QuestionSource yields one candidate quiz item per call. Any error means
// "nothing usable right now"; the scheduler tries again later.
type QuestionSource interface {
	Fetch(ctx context.Context) (*entities.QuizItem, error)
}

// Translator converts an item into the target language, falling back to the
// original item when translation fails.
type Translator interface {
	Translate(ctx context.Context, item *entities.QuizItem) *entities.QuizItem
}

// QuizSender delivers a quiz poll to the destination chat.
type QuizSender interface {
	SendQuiz(ctx context.Context, item *entities.QuizItem) error
}

// StateStore persists the scheduler's counters and idempotency markers.
// Missing values read as zero values.
type StateStore interface {
	SentCount(ctx context.Context) (int, error)
	SetSentCount(ctx context.Context, n int) error
	LastResetDate(ctx context.Context) (string, error)
	SetLastResetDate(ctx context.Context, date string) error
	LastSlot(ctx context.Context) (string, error)
	SetLastSlot(ctx context.Context, slot string) error
	BankCursor(ctx context.Context) (int, error)
	SetBankCursor(ctx context.Context, n int) error
}

// UsedQuestionLog is the per-day record of delivered question texts.
type UsedQuestionLog interface {
	IsUsed(ctx context.Context, date, question string) (bool, error)
	MarkUsed(ctx context.Context, date, question string) error
	PruneBefore(ctx context.Context, cutoff string) (int64, error)
}

// Clock abstracts wall-clock time so scheduling decisions are testable
// against synthetic ticks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
