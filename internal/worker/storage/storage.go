// Package storage holds the relay worker's database operations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/guildworks/marketboard/internal/worker/domain"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ClaimNotification stamps relayed_at using optimistic locking and returns
// the row. Exactly one worker wins the claim; losers get ErrAlreadyRelayed.
func (s *Storage) ClaimNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET relayed_at = NOW()
		WHERE notification_id = $1
		  AND relayed_at IS NULL
		RETURNING notification_id, recipient, content, type, COALESCE(link, '')
	`

	var n domain.Notification
	err := s.db.QueryRowContext(ctx, query, notificationID).Scan(
		&n.NotificationID,
		&n.Recipient,
		&n.Content,
		&n.Type,
		&n.Link,
	)
	if err == nil {
		s.logger.Info("Notification claimed for relay",
			slog.String("notification_id", notificationID),
		)
		return &n, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to claim notification: %w", err)
	}

	// No claimable row: distinguish a missing row from a finished one.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM notifications WHERE notification_id = $1)`
	if err := s.db.QueryRowContext(ctx, existsQuery, notificationID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check notification existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotificationNotFound
	}

	s.logger.Warn("Notification already relayed, skipping",
		slog.String("notification_id", notificationID),
	)
	return nil, domain.ErrAlreadyRelayed
}

// DeleteExpired removes records that were finished before the cutoff:
// delivered jobs (bids cascade with them), resolved service requests, and
// notifications. Open work is never touched.
func (s *Storage) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	statements := []struct {
		name  string
		query string
	}{
		{
			name: "service_requests",
			query: `DELETE FROM service_requests
				WHERE status IN ('denied', 'completed') AND updated_at < $1`,
		},
		{
			name: "jobs",
			query: `DELETE FROM jobs
				WHERE status = 'delivered' AND delivered_date < $1`,
		},
		{
			name:  "notifications",
			query: `DELETE FROM notifications WHERE timestamp < $1`,
		},
	}

	for _, stmt := range statements {
		result, err := s.db.ExecContext(ctx, stmt.query, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete expired %s: %w", stmt.name, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected for %s: %w", stmt.name, err)
		}

		if rows > 0 {
			s.logger.Info("Expired records deleted",
				slog.String("table", stmt.name),
				slog.Int64("rows", rows),
				slog.Time("cutoff", cutoff),
			)
		}
	}

	return nil
}
