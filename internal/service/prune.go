package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner trims old rows out of the used-question log so the table doesn't
// grow without bound. Today's rows are never touched, so deduplication is
// unaffected.
type Pruner struct {
	used          UsedQuestionLog
	retentionDays int
	location      *time.Location
	clock         Clock
	logger        *zap.Logger
}

func NewPruner(used UsedQuestionLog, retentionDays int, location *time.Location, logger *zap.Logger) *Pruner {
	if location == nil {
		location = time.UTC
	}
	return &Pruner{
		used:          used,
		retentionDays: retentionDays,
		location:      location,
		clock:         systemClock{},
		logger:        logger,
	}
}

// Start runs the nightly prune job until the context is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	p.logger.Info("pruner started", zap.Int("retention_days", p.retentionDays))

	c := cron.New(cron.WithLocation(p.location))

	_, err := c.AddFunc("0 3 * * *", func() {
		if err := p.pruneOnce(ctx); err != nil {
			p.logger.Error("failed to prune used questions", zap.Error(err))
		}
	})
	if err != nil {
		p.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	p.logger.Info("pruner stopped")
}

func (p *Pruner) pruneOnce(ctx context.Context) error {
	cutoff := p.clock.Now().In(p.location).AddDate(0, 0, -p.retentionDays).Format(dateLayout)

	removed, err := p.used.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	p.logger.Info("used questions pruned",
		zap.String("cutoff", cutoff),
		zap.Int64("removed", removed),
	)
	return nil
}
