package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guildworks/marketboard/internal/worker/domain"
)

// spawnRelayPool spawns N relay goroutines based on concurrency configuration
func (w *Worker) spawnRelayPool(ctx context.Context) {
	w.logger.Info("Spawning relay pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.relayLoop(ctx, i)
	}
}

// relayLoop is the main processing loop for each relay goroutine
func (w *Worker) relayLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Info("Relay goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Relay goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Info("Relay goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg, ok := <-w.eventsChan:
			if !ok {
				w.logger.Info("Relay goroutine stopping - eventsChan closed",
					slog.String("worker_name", workerName),
				)
				return
			}

			err := w.relayEvent(ctx, msg)

			channel := w.rabbitClient.GetChannel()
			if channel == nil {
				w.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("worker_name", workerName),
					slog.String("notification_id", msg.NotificationID),
				)
				continue
			}

			if err != nil && !alreadyHandled(err) {
				requeue := shouldRequeue(err)
				w.logger.Error("Event relay failed",
					slog.String("worker_name", workerName),
					slog.String("notification_id", msg.NotificationID),
					slog.Bool("requeue", requeue),
					slog.String("error", err.Error()),
				)

				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					w.logger.Error("Failed to NACK event",
						slog.String("worker_name", workerName),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if err != nil {
				// Duplicate delivery of a notification another worker
				// already relayed: the outcome the event asked for holds,
				// so the message is acknowledged, not dead-lettered.
				w.logger.Warn("Duplicate delivery for relayed notification, acknowledging",
					slog.String("worker_name", workerName),
					slog.String("notification_id", msg.NotificationID),
				)
			}

			if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
				w.logger.Error("Failed to ACK event",
					slog.String("worker_name", workerName),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

// alreadyHandled reports whether the error means the notification was
// relayed before this delivery arrived. Such deliveries are acknowledged like
// successes so redeliveries of a done message never reach the dead letter
// queue.
func alreadyHandled(err error) bool {
	return errors.Is(err, domain.ErrAlreadyRelayed)
}

// shouldRequeue determines if an event should be requeued based on the error.
// Terminal conditions are dropped; only transient failures go back on the
// queue.
func shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return false
	}

	if errors.Is(err, domain.ErrInvalidEvent) {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
