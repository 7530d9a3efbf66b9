// Package service implements the marketplace state machine: the Job/Bid
// lifecycle, the service-request bridge, and notification emission. Every
// transition runs as one atomic transaction against the Store; notification
// rows are written inside that transaction, and the corresponding events are
// published to the broker only after commit.
package service

import (
	"context"
	"log/slog"

	"github.com/guildworks/marketboard/internal/api/model"
)

// NotificationEvent is the post-commit message fanned out to the relay
// worker for every notification row created by a transition.
type NotificationEvent struct {
	NotificationID string `json:"notification_id"`
	Recipient      string `json:"recipient"`
	Type           string `json:"type"`
}

// Publisher pushes notification-created events to the broker. Publishing is
// best-effort: the notification row is the durable record, so a publish
// failure is logged and swallowed.
type Publisher interface {
	PublishNotificationCreated(ctx context.Context, ev NotificationEvent) error
}

// UnreadCache caches per-user unread notification counts. Implementations
// must tolerate being a plain cache: misses and invalidations are normal.
type UnreadCache interface {
	GetUnread(ctx context.Context, userID string) (int, bool)
	SetUnread(ctx context.Context, userID string, count int)
	Invalidate(ctx context.Context, userID string)
}

// Market owns every marketplace transition. Construct with New; the
// publisher and cache may be nil, which disables event fan-out and count
// caching respectively.
type Market struct {
	store     Store
	logger    *slog.Logger
	publisher Publisher
	cache     UnreadCache
}

func New(store Store, logger *slog.Logger, publisher Publisher, cache UnreadCache) *Market {
	return &Market{
		store:     store,
		logger:    logger,
		publisher: publisher,
		cache:     cache,
	}
}

// afterCommit fans out events and drops cached unread counts for every
// notification created by a committed transition.
func (m *Market) afterCommit(ctx context.Context, created []model.Notification) {
	for _, n := range created {
		if m.cache != nil {
			m.cache.Invalidate(ctx, n.Recipient)
		}
		if m.publisher == nil {
			continue
		}
		ev := NotificationEvent{
			NotificationID: n.NotificationID,
			Recipient:      n.Recipient,
			Type:           n.Type,
		}
		if err := m.publisher.PublishNotificationCreated(ctx, ev); err != nil {
			m.logger.Error("Failed to publish notification event",
				slog.String("notification_id", n.NotificationID),
				slog.Any("error", err),
			)
		}
	}
}
