// Package worker relays committed notifications to their recipients. The API
// service writes the notification row and publishes a notification-created
// event; the relay claims the row with an optimistic update so each
// notification is delivered exactly once even with competing consumers.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guildworks/marketboard/internal/worker/domain"
	"github.com/guildworks/marketboard/internal/worker/storage"
	"github.com/guildworks/marketboard/shared/postgresql"
	"github.com/guildworks/marketboard/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger       *slog.Logger
	DBClient     *postgresql.Client
	RabbitClient *rabbitmq.Client
	Concurrency  int
	RelayTimeout time.Duration
}

// Worker represents the notification relay worker
type Worker struct {
	logger       *slog.Logger
	storage      *storage.Storage
	rabbitClient *rabbitmq.Client
	concurrency  int
	relayTimeout time.Duration
	workerID     string
	eventsChan   chan *domain.EventMessage
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:       cfg.Logger,
		storage:      storage.NewStorage(cfg.DBClient.GetDB(), cfg.Logger),
		rabbitClient: cfg.RabbitClient,
		concurrency:  cfg.Concurrency,
		relayTimeout: cfg.RelayTimeout,
		workerID:     fmt.Sprintf("relay-%s", uuid.New().String()[:8]),
		eventsChan:   make(chan *domain.EventMessage),
		stopChan:     make(chan struct{}),
	}
}

// Start begins consuming and relaying notification events. It blocks until
// the context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification relay",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("relay_timeout", w.relayTimeout),
	)

	deliveries, err := w.rabbitClient.Consume(w.workerID)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	w.spawnRelayPool(ctx)
	w.startDispatcher(ctx, deliveries)

	w.logger.Info("Dispatcher finished, waiting for in-flight events")
	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping notification relay...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Notification relay stopped")
}
