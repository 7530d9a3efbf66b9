package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guildworks/marketboard/internal/worker/storage"
)

// Sweeper runs the scheduled retention sweep that deletes finished records
// older than the configured age.
type Sweeper struct {
	cron    *cron.Cron
	storage *storage.Storage
	logger  *slog.Logger
	spec    string
	maxAge  time.Duration
}

// NewSweeper creates a Sweeper with a cron schedule like "0 3 * * *".
func NewSweeper(st *storage.Storage, schedule string, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cron:    cron.New(),
		storage: st,
		logger:  logger,
		spec:    schedule,
		maxAge:  maxAge,
	}
}

// Start registers the sweep and starts the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Retention sweep scheduled",
		slog.String("schedule", s.spec),
		slog.Duration("max_age", s.maxAge),
	)
	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Retention sweep stopped")
}

// RunOnce executes a single sweep against the current cutoff.
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	s.logger.Info("Retention sweep started",
		slog.Time("cutoff", cutoff),
	)

	if err := s.storage.DeleteExpired(ctx, cutoff); err != nil {
		s.logger.Error("Retention sweep failed",
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("Retention sweep complete")
}
