package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vanrajsinh650/Quiz-telegram-bot/internal/domain/entities"
)

const dateLayout = "2006-01-02"

var (
	// ErrNoNovelQuestion means the dedup retry budget was exhausted without
	// finding a question that wasn't already sent today.
	ErrNoNovelQuestion = errors.New("no novel question found")

	// ErrDailyLimitReached means today's quiz quota is already spent.
	ErrDailyLimitReached = errors.New("daily quiz limit reached")
)

// SchedulerConfig carries the scheduling parameters.
type SchedulerConfig struct {
	ResetHour     int            // hour at which the daily counter is zeroed
	ActiveFrom    int            // first hour of the sending window (inclusive)
	ActiveUntil   int            // last hour of the sending window (exclusive)
	MaxPerDay     int            // quizzes per calendar day
	TickInterval  time.Duration  // pause between ticks
	DedupAttempts int            // fetch attempts before abandoning a slot
	Location      *time.Location // timezone the schedule is evaluated in
}

// Scheduler is the control loop: once per tick it checks whether the daily
// counter is due for a reset and whether the current 2-hour slot still needs
// a quiz, then drives fetch, dedup, translation and delivery. All persistent
// state moves through the StateStore, so a restarted process resumes where
// it left off.
type Scheduler struct {
	cfg        SchedulerConfig
	state      StateStore
	used       UsedQuestionLog
	source     QuestionSource
	translator Translator
	sender     QuizSender
	clock      Clock
	logger     *zap.Logger
}

func NewScheduler(
	cfg SchedulerConfig,
	state StateStore,
	used UsedQuestionLog,
	source QuestionSource,
	translator Translator,
	sender QuizSender,
	logger *zap.Logger,
) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		cfg:        cfg,
		state:      state,
		used:       used,
		source:     source,
		translator: translator,
		sender:     sender,
		clock:      systemClock{},
		logger:     logger,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started",
		zap.Int("reset_hour", s.cfg.ResetHour),
		zap.Int("max_per_day", s.cfg.MaxPerDay),
		zap.Duration("tick_interval", s.cfg.TickInterval),
	)
	defer s.logger.Info("scheduler stopped")

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick evaluates one scheduling step against the current wall-clock time.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock.Now().In(s.cfg.Location)

	if err := s.maybeReset(ctx, now); err != nil {
		s.logger.Error("daily reset failed", zap.Error(err))
	}

	if err := s.maybeSend(ctx, now); err != nil {
		switch {
		case errors.Is(err, ErrNoNovelQuestion):
			s.logger.Warn("no quiz this slot", zap.Error(err))
		default:
			s.logger.Error("quiz delivery failed", zap.Error(err))
		}
	}
}

// maybeReset zeroes the daily counter once per calendar date, at the
// configured hour. Repeated ticks within the reset hour are no-ops.
func (s *Scheduler) maybeReset(ctx context.Context, now time.Time) error {
	if now.Hour() != s.cfg.ResetHour {
		return nil
	}

	today := now.Format(dateLayout)
	last, err := s.state.LastResetDate(ctx)
	if err != nil {
		return err
	}
	if last == today {
		return nil
	}

	// Counter first: if the process dies between the two writes, the next
	// tick repeats the reset, which is harmless.
	if err := s.state.SetSentCount(ctx, 0); err != nil {
		return err
	}
	if err := s.state.SetLastResetDate(ctx, today); err != nil {
		return err
	}

	s.logger.Info("daily counter reset", zap.String("date", today))
	return nil
}

// slotKey identifies the current 2-hour bucket, e.g. "2024-06-01_4" for
// 08:xx on that date.
func slotKey(now time.Time) string {
	return now.Format(dateLayout) + "_" + strconv.Itoa(now.Hour()/2)
}

// inActiveWindow reports whether quizzes may be sent at this hour.
func (s *Scheduler) inActiveWindow(now time.Time) bool {
	return now.Hour() >= s.cfg.ActiveFrom && now.Hour() < s.cfg.ActiveUntil
}

// maybeSend attempts at most one quiz per slot. A slot whose quota is spent
// still advances the marker so it isn't re-evaluated; a failed delivery
// leaves all state untouched so a later tick in the same slot retries.
func (s *Scheduler) maybeSend(ctx context.Context, now time.Time) error {
	if !s.inActiveWindow(now) {
		return nil
	}

	slot := slotKey(now)
	lastSlot, err := s.state.LastSlot(ctx)
	if err != nil {
		return err
	}
	if lastSlot == slot {
		return nil
	}

	count, err := s.state.SentCount(ctx)
	if err != nil {
		return err
	}
	if count >= s.cfg.MaxPerDay {
		s.logger.Info("daily limit reached, skipping slot",
			zap.String("slot", slot),
			zap.Int("sent", count),
		)
		return s.state.SetLastSlot(ctx, slot)
	}

	if err := s.deliver(ctx, now, count); err != nil {
		return err
	}

	return s.state.SetLastSlot(ctx, slot)
}

// SendNow sends a quiz immediately, bypassing the slot gate but still
// honoring the daily cap and the dedup log. Used by the /test command.
func (s *Scheduler) SendNow(ctx context.Context) error {
	now := s.clock.Now().In(s.cfg.Location)

	count, err := s.state.SentCount(ctx)
	if err != nil {
		return err
	}
	if count >= s.cfg.MaxPerDay {
		return ErrDailyLimitReached
	}

	return s.deliver(ctx, now, count)
}

// Restart zeroes the daily counter and clears the slot marker and bank
// cursor, making the current slot eligible again. Used by /restart_quiz.
func (s *Scheduler) Restart(ctx context.Context) error {
	if err := s.state.SetSentCount(ctx, 0); err != nil {
		return err
	}
	if err := s.state.SetLastSlot(ctx, ""); err != nil {
		return err
	}
	if err := s.state.SetBankCursor(ctx, 0); err != nil {
		return err
	}

	s.logger.Info("quiz progress restarted")
	return nil
}

// deliver runs the fetch, dedup, translate and send pipeline, incrementing
// the counter on success.
func (s *Scheduler) deliver(ctx context.Context, now time.Time, count int) error {
	item, err := s.pickQuestion(ctx, now.Format(dateLayout))
	if err != nil {
		return err
	}

	if s.translator != nil {
		item = s.translator.Translate(ctx, item)
	}

	if err := s.sender.SendQuiz(ctx, item); err != nil {
		return fmt.Errorf("send quiz: %w", err)
	}

	if err := s.state.SetSentCount(ctx, count+1); err != nil {
		return fmt.Errorf("advance counter: %w", err)
	}

	s.logger.Info("quiz sent",
		zap.String("question", item.Question),
		zap.Int("sent_today", count+1),
	)
	return nil
}

// pickQuestion fetches candidates until one isn't in today's used log, up to
// the attempt budget. The winning question is committed to the log before
// it is delivered, so a later delivery failure never causes a repeat of the
// same question.
func (s *Scheduler) pickQuestion(ctx context.Context, today string) (*entities.QuizItem, error) {
	for attempt := 1; attempt <= s.cfg.DedupAttempts; attempt++ {
		candidate, err := s.source.Fetch(ctx)
		if err != nil {
			s.logger.Debug("question fetch failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		used, err := s.used.IsUsed(ctx, today, candidate.Question)
		if err != nil {
			return nil, err
		}
		if used {
			s.logger.Debug("question already used today",
				zap.Int("attempt", attempt),
				zap.String("question", candidate.Question),
			)
			continue
		}

		if err := s.used.MarkUsed(ctx, today, candidate.Question); err != nil {
			return nil, err
		}

		return candidate, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNoNovelQuestion, s.cfg.DedupAttempts)
}
