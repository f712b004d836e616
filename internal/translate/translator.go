package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/DarthRamone/gtranslate"
	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

// translateFunc translates a single string. Swapped out in tests.
type translateFunc func(text, from, to string) (string, error)

// Translator translates quiz items into the target language. Translation is
// all-or-nothing: if any sub-call fails, the caller gets the original item
// back unchanged, never a partial mix of languages.
type Translator struct {
	fn         translateFunc
	targetLang string
	logger     *zap.Logger
}

func New(targetLang string, logger *zap.Logger) *Translator {
	return &Translator{
		fn:         googleTranslate,
		targetLang: targetLang,
		logger:     logger,
	}
}

func googleTranslate(text, from, to string) (string, error) {
	translated, err := gtranslate.TranslateWithParams(
		text,
		gtranslate.TranslationParams{
			From:  from,
			To:    to,
			Delay: time.Second,
			Tries: 3,
		},
	)
	if err != nil {
		return "", err
	}

	return translated, nil
}

// Translate returns the item translated into the target language, or the
// original item when any part of the translation fails.
func (t *Translator) Translate(ctx context.Context, item *entities.QuizItem) *entities.QuizItem {
	translated, err := t.translateItem(item)
	if err != nil {
		t.logger.Warn("translation degraded, keeping original language",
			zap.String("target_lang", t.targetLang),
			zap.Error(err),
		)
		return item
	}

	return translated
}

func (t *Translator) translateItem(item *entities.QuizItem) (*entities.QuizItem, error) {
	out := item.Clone()

	var err error
	if out.Question, err = t.fn(item.Question, "auto", t.targetLang); err != nil {
		return nil, fmt.Errorf("translate question: %w", err)
	}

	for i, opt := range item.Options {
		if out.Options[i], err = t.fn(opt, "auto", t.targetLang); err != nil {
			return nil, fmt.Errorf("translate option %d: %w", i, err)
		}
	}

	if item.Explanation != "" {
		if out.Explanation, err = t.fn(item.Explanation, "auto", t.targetLang); err != nil {
			return nil, fmt.Errorf("translate explanation: %w", err)
		}
	}

	return out, nil
}
