// Package cache provides the Redis-backed unread notification counter.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildworks/marketboard/internal/api/service"
)

// Config holds Redis connection and TTL settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// UnreadCounter caches unread notification counts per user. Cache failures
// never surface to callers; the count is recomputable from the database.
type UnreadCounter struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ service.UnreadCache = (*UnreadCounter)(nil)

// NewUnreadCounter connects to Redis and verifies the connection.
func NewUnreadCounter(config *Config, logger *slog.Logger) (*UnreadCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logger.Info("Connected to Redis",
		slog.String("addr", config.Addr),
		slog.Duration("ttl", ttl),
	)

	return &UnreadCounter{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func key(userID string) string {
	return "unread:" + userID
}

// GetUnread returns the cached count and whether it was present.
func (u *UnreadCounter) GetUnread(ctx context.Context, userID string) (int, bool) {
	val, err := u.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		u.logger.Warn("Failed to read unread count from Redis",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return 0, false
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnread stores the count with the configured TTL.
func (u *UnreadCounter) SetUnread(ctx context.Context, userID string, count int) {
	if err := u.client.Set(ctx, key(userID), count, u.ttl).Err(); err != nil {
		u.logger.Warn("Failed to cache unread count",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the cached count after a notification is created or read.
func (u *UnreadCounter) Invalidate(ctx context.Context, userID string) {
	if err := u.client.Del(ctx, key(userID)).Err(); err != nil {
		u.logger.Warn("Failed to invalidate unread count",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// Close releases the Redis connection.
func (u *UnreadCounter) Close() error {
	return u.client.Close()
}
