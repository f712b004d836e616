package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

var ErrAllSourcesFailed = errors.New("all question sources failed")

// FallbackSource tries each source in order until one yields a question.
// The bot wires the trivia API first and the bundled question bank second,
// so a flaky upstream degrades to local questions instead of a missed slot.
type FallbackSource struct {
	sources []QuestionSource
	logger  *zap.Logger
}

func NewFallbackSource(logger *zap.Logger, sources ...QuestionSource) *FallbackSource {
	return &FallbackSource{
		sources: sources,
		logger:  logger,
	}
}

func (f *FallbackSource) Fetch(ctx context.Context) (*entities.QuizItem, error) {
	for i, src := range f.sources {
		item, err := src.Fetch(ctx)
		if err != nil {
			f.logger.Debug("question source failed",
				zap.Int("source", i),
				zap.Error(err),
			)
			continue
		}
		return item, nil
	}

	return nil, ErrAllSourcesFailed
}
