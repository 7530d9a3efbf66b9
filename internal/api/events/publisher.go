// Package events adapts the RabbitMQ client to the notification event
// fan-out used by the service layer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/guildworks/marketboard/internal/api/service"
	"github.com/guildworks/marketboard/shared/rabbitmq"
)

// RabbitPublisher publishes notification-created events to the broker.
type RabbitPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

var _ service.Publisher = (*RabbitPublisher)(nil)

func NewRabbitPublisher(client *rabbitmq.Client, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

// PublishNotificationCreated marshals the event and publishes it with the
// client's retry policy.
func (p *RabbitPublisher) PublishNotificationCreated(ctx context.Context, ev service.NotificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.logger.Debug("Notification event published",
		slog.String("notification_id", ev.NotificationID),
		slog.String("type", ev.Type),
	)
	return nil
}
