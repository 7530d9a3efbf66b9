package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/guildworks/marketboard/internal/worker/domain"
)

// startDispatcher reads RabbitMQ deliveries and hands valid events to the
// relay pool. It returns when the context is canceled or the delivery
// channel closes.
func (w *Worker) startDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Event dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Event dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			msg, err := parseEvent(delivery.Body)
			if err != nil {
				w.logger.Error("Failed to parse event",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// Malformed events can never succeed: NACK without requeue.
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed event",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}
			msg.DeliveryTag = delivery.DeliveryTag

			select {
			case w.eventsChan <- msg:
				w.logger.Debug("Event dispatched to relay pool",
					slog.String("notification_id", msg.NotificationID),
					slog.Uint64("delivery_tag", msg.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Event dispatcher stopped while dispatching")
				// Requeue so another consumer can pick the event up.
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK event on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}

// parseEvent unmarshals and validates an event payload.
func parseEvent(body []byte) (*domain.EventMessage, error) {
	var msg domain.EventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}
	if _, err := uuid.Parse(msg.NotificationID); err != nil {
		return nil, fmt.Errorf("%w: notification_id is not a UUID", domain.ErrInvalidEvent)
	}
	return &msg, nil
}
