package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/config"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/delivery/telegram"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/infra/postgres"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/logger"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/quizbank"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/repository"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/service"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/translate"
	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/trivia"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	location, err := cfg.Location()
	if err != nil {
		zlog.Fatal("invalid timezone", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zlog.Fatal("failed to create bot API", zap.Error(err))
	}
	zlog.Info("authorized", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "restart_quiz",
			Description: "Restart daily quiz progress",
		},
		{
			Command:     "test",
			Description: "Send a quiz now",
		},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zlog.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		zlog.Fatal("failed to ensure schema", zap.Error(err))
	}

	stateRepo := repository.NewStateRepository(pool)
	usedRepo := repository.NewUsedQuestionRepository(pool)

	triviaClient := trivia.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.Timeout)

	bank, err := quizbank.Load(cfg.Bank.JSONPath, stateRepo, zlog)
	if err != nil {
		zlog.Fatal("failed to load question bank", zap.Error(err))
	}

	source := service.NewFallbackSource(zlog, triviaClient, bank)

	var translator service.Translator
	if cfg.Translate.Enabled {
		translator = translate.New(cfg.Translate.TargetLang, zlog)
	}

	sender := telegram.NewSender(bot, cfg.ChatID, zlog)

	scheduler := service.NewScheduler(
		service.SchedulerConfig{
			ResetHour:     cfg.Schedule.ResetHour,
			ActiveFrom:    cfg.Schedule.ActiveFrom,
			ActiveUntil:   cfg.Schedule.ActiveUntil,
			MaxPerDay:     cfg.Schedule.MaxPerDay,
			TickInterval:  cfg.Schedule.TickInterval,
			DedupAttempts: cfg.Schedule.DedupAttempts,
			Location:      location,
		},
		stateRepo,
		usedRepo,
		source,
		translator,
		sender,
		zlog,
	)

	pruner := service.NewPruner(usedRepo, cfg.Schedule.RetentionDays, location, zlog)

	go scheduler.Run(ctx)
	go pruner.Start(ctx)

	handler := telegram.NewHandler(bot, zlog, scheduler)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Error("handler stopped", zap.Error(err))
	}

	<-ctx.Done()
	zlog.Info("shutdown signal received")
}
