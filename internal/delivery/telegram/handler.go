package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/service"
)

// QuizControl is the slice of the scheduler the command surface needs.
type QuizControl interface {
	SendNow(ctx context.Context) error
	Restart(ctx context.Context) error
}

type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
	quiz   QuizControl
}

func NewHandler(bot *tgbotapi.BotAPI, logger *zap.Logger, quiz QuizControl) *Handler {
	return &Handler{
		bot:    bot,
		logger: logger,
		quiz:   quiz,
	}
}

// Run polls for updates until the context is cancelled. Transport errors on
// the update channel are retried inside the bot API client.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		h.logger.Debug("update without message")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	// Membership service messages are deleted to keep the quiz chat clean.
	if len(msg.NewChatMembers) > 0 || msg.LeftChatMember != nil {
		h.deleteMessage(chatID, msg.MessageID)
		return
	}

	if !msg.IsCommand() {
		return
	}

	h.logger.Debug("command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", msg.Command()),
	)

	switch msg.Command() {
	case "start":
		h.send(newPlainMessage(chatID, msgWelcome))

	case "restart_quiz":
		_ = h.withErrorHandling(h.restartHandler())(ctx, chatID)

	case "test":
		_ = h.withErrorHandling(h.testHandler())(ctx, chatID)

	default:
		// Other bots' commands land here in group chats; ignore them.
	}
}

func (h *Handler) restartHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.quiz.Restart(ctx); err != nil {
			h.send(newPlainMessage(chatID, msgRestartFailed))
			return err
		}
		h.send(newPlainMessage(chatID, msgRestarted))
		return nil
	}
}

func (h *Handler) testHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := h.quiz.SendNow(ctx)
		switch {
		case errors.Is(err, service.ErrDailyLimitReached):
			h.send(newPlainMessage(chatID, msgDailyLimit))
			return nil
		case err != nil:
			h.send(newPlainMessage(chatID, msgQuizUnavailable))
			return err
		}
		h.send(newPlainMessage(chatID, msgTestSent))
		return nil
	}
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Debug("failed to delete service message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
