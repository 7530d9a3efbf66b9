package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
)

// emit appends a notification row inside the caller's transaction. The
// recipient must exist; callers inside the state machine always pass ids
// read from related rows, so ErrRecipientNotFound there indicates a bug and
// is logged by the caller rather than surfaced.
func emit(ctx context.Context, store Store, recipient, content, ntype, link string) (*model.Notification, error) {
	if _, err := store.GetUser(ctx, recipient); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	n := &model.Notification{
		NotificationID: uuid.New().String(),
		Recipient:      recipient,
		Content:        content,
		Type:           ntype,
		IsRead:         false,
		Timestamp:      time.Now(),
	}
	if link != "" {
		n.Link = sql.NullString{String: link, Valid: true}
	}

	if err := store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// SendCustomMessage emits a free-form notification to a user. Unlike the
// state-machine emissions, the recipient id comes straight from the client,
// so ErrRecipientNotFound surfaces as a 404.
func (m *Market) SendCustomMessage(ctx context.Context, recipient, content string) (*model.Notification, error) {
	var created *model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		n, err := emit(ctx, tx, recipient, content, domain.NotificationCustomMessage, "")
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.afterCommit(ctx, []model.Notification{*created})
	return created, nil
}

// ListNotifications returns the actor's feed, newest first.
func (m *Market) ListNotifications(ctx context.Context, actorID string, unreadOnly bool, page, pageSize int) ([]model.Notification, error) {
	return m.store.ListNotifications(ctx, actorID, unreadOnly, page, pageSize)
}

// UnreadCount returns the actor's unread notification count, served from
// the cache when warm.
func (m *Market) UnreadCount(ctx context.Context, actorID string) (int, error) {
	if m.cache != nil {
		if count, ok := m.cache.GetUnread(ctx, actorID); ok {
			return count, nil
		}
	}

	count, err := m.store.CountUnread(ctx, actorID)
	if err != nil {
		return 0, err
	}

	if m.cache != nil {
		m.cache.SetUnread(ctx, actorID, count)
	}
	return count, nil
}

// MarkNotificationRead flips is_read on a single notification owned by the
// actor. ErrNotFound covers both a bad id and someone else's notification.
func (m *Market) MarkNotificationRead(ctx context.Context, actorID, notificationID string) error {
	if err := m.store.MarkNotificationRead(ctx, notificationID, actorID); err != nil {
		return err
	}

	if m.cache != nil {
		m.cache.Invalidate(ctx, actorID)
	}

	m.logger.Debug("Notification marked read",
		slog.String("notification_id", notificationID),
		slog.String("recipient", actorID),
	)
	return nil
}
