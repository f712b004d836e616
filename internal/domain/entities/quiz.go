package entities

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Telegram poll limits.
const (
	MaxQuestionLen    = 300
	MaxExplanationLen = 200
	MaxOptionLen      = 100
	MinOptions        = 2
	MaxOptions        = 10
)

var (
	ErrEmptyQuestion      = errors.New("quiz question is empty")
	ErrQuestionTooLong    = errors.New("quiz question is too long")
	ErrExplanationTooLong = errors.New("quiz explanation is too long")
	ErrBadOptions         = errors.New("quiz options are invalid")
	ErrBadCorrectIndex    = errors.New("correct option index is out of range")
)

// QuizItem is one normalized trivia question ready to be sent as a quiz poll.
// CorrectIndex always points at the correct answer within Options, including
// after any shuffling done by the source.
type QuizItem struct {
	Question     string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// Clone returns a deep copy of the item.
func (q *QuizItem) Clone() *QuizItem {
	cp := *q
	cp.Options = make([]string, len(q.Options))
	copy(cp.Options, q.Options)
	return &cp
}

// Validate checks the item against Telegram quiz poll constraints.
func (q *QuizItem) Validate() error {
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	if utf8.RuneCountInString(q.Question) > MaxQuestionLen {
		return fmt.Errorf("%w: %d runes", ErrQuestionTooLong, utf8.RuneCountInString(q.Question))
	}
	if utf8.RuneCountInString(q.Explanation) > MaxExplanationLen {
		return fmt.Errorf("%w: %d runes", ErrExplanationTooLong, utf8.RuneCountInString(q.Explanation))
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fmt.Errorf("%w: %d options", ErrBadOptions, len(q.Options))
	}
	for _, opt := range q.Options {
		if opt == "" || utf8.RuneCountInString(opt) > MaxOptionLen {
			return fmt.Errorf("%w: option %q", ErrBadOptions, opt)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %d", ErrBadCorrectIndex, q.CorrectIndex)
	}
	return nil
}
