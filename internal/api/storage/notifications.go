package storage

import (
	"context"
	"fmt"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `
	notification_id, recipient, content, type, link, is_read, timestamp, relayed_at
`

func (s *Storage) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			notification_id, recipient, content, type, link, is_read, timestamp, relayed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		n.NotificationID,
		n.Recipient,
		n.Content,
		n.Type,
		n.Link,
		n.IsRead,
		n.Timestamp,
		n.RelayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns the recipient's feed, newest first, optionally
// restricted to unread entries.
func (s *Storage) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, page, pageSize int) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient = $1`
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += ` ORDER BY timestamp DESC, notification_id DESC LIMIT $2 OFFSET $3`

	offset := (page - 1) * pageSize
	var notifications []model.Notification
	if err := sqlx.SelectContext(ctx, s.q, &notifications, query, recipient, pageSize, offset); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *Storage) CountUnread(ctx context.Context, recipient string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND is_read = FALSE`
	if err := sqlx.GetContext(ctx, s.q, &count, query, recipient); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead flips is_read for a notification owned by recipient.
// The ownership predicate is part of the query so a caller can never mark
// someone else's notification.
func (s *Storage) MarkNotificationRead(ctx context.Context, notificationID, recipient string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE notification_id = $1 AND recipient = $2
	`

	res, err := s.q.ExecContext(ctx, query, notificationID, recipient)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
