package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guildworks/marketboard/internal/worker/domain"
)

// relayEvent claims the notification row and emits the delivery record. The
// claim is the exactly-once gate: a second worker handling the same event
// sees an already-stamped row and drops the message.
func (w *Worker) relayEvent(ctx context.Context, msg *domain.EventMessage) error {
	relayCtx, cancel := context.WithTimeout(ctx, w.relayTimeout)
	defer cancel()

	n, err := w.storage.ClaimNotification(relayCtx, msg.NotificationID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRelayed) || errors.Is(err, domain.ErrNotificationNotFound) {
			return err
		}
		// Database errors are assumed transient.
		return domain.NewRetryableError(fmt.Errorf("failed to claim notification: %w", err))
	}

	w.deliver(n)
	return nil
}

// deliver emits the notification to its recipient. Recipients poll the inbox
// endpoint, so delivery here is the structured relay record that downstream
// channels (websocket push, e-mail digests) tail.
func (w *Worker) deliver(n *domain.Notification) {
	w.logger.Info("Notification relayed",
		slog.String("notification_id", n.NotificationID),
		slog.String("recipient", n.Recipient),
		slog.String("type", n.Type),
		slog.String("link", n.Link),
		slog.Time("relayed_at", time.Now()),
	)
}
