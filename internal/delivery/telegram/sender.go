package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

// Sender posts quiz polls to the configured destination chat.
type Sender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewSender(bot *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *Sender {
	return &Sender{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}
}

// SendQuiz delivers the item as a non-anonymous quiz poll.
func (s *Sender) SendQuiz(ctx context.Context, item *entities.QuizItem) error {
	poll := tgbotapi.NewPoll(s.chatID, item.Question, item.Options...)
	poll.Type = "quiz"
	poll.IsAnonymous = false
	poll.CorrectOptionID = int64(item.CorrectIndex)
	poll.Explanation = item.Explanation

	if _, err := s.bot.Send(poll); err != nil {
		return fmt.Errorf("send quiz poll: %w", err)
	}

	s.logger.Debug("quiz poll sent",
		zap.Int64("chat_id", s.chatID),
		zap.Int("options", len(item.Options)),
	)
	return nil
}
