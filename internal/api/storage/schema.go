package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so the service can run them on every start.
func (s *Storage) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id       UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_staff      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			profile_id            UUID PRIMARY KEY,
			user_id               UUID NOT NULL UNIQUE REFERENCES users(user_id) ON DELETE CASCADE,
			bio                   TEXT NOT NULL DEFAULT '',
			game_location         TEXT NOT NULL DEFAULT '',
			in_game_name          TEXT NOT NULL DEFAULT '',
			completed_jobs        INTEGER NOT NULL DEFAULT 0,
			recent_completed_jobs TEXT NOT NULL DEFAULT '[]',
			can_create_store      BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id          UUID PRIMARY KEY,
			posted_by       UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			in_game_name    TEXT NOT NULL DEFAULT 'Unknown',
			server          TEXT NOT NULL DEFAULT 'Server',
			node            TEXT NOT NULL DEFAULT 'Node',
			items_requested TEXT NOT NULL DEFAULT 'No items specified',
			item_category   TEXT NOT NULL DEFAULT 'Alchemy',
			total_copper    INTEGER NOT NULL DEFAULT 0,
			deadline        DATE NOT NULL DEFAULT CURRENT_DATE,
			special_notes   TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'posted',
			accepted_bid_id UUID,
			date_posted     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_date  TIMESTAMPTZ,
			delivered_date  TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			bid_id                    UUID PRIMARY KEY,
			job_id                    UUID NOT NULL REFERENCES jobs(job_id) ON DELETE CASCADE,
			bidder                    UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			estimated_completion_time TEXT NOT NULL DEFAULT '',
			proposed_price_copper     INTEGER NOT NULL DEFAULT 0,
			in_game_name              TEXT NOT NULL DEFAULT '',
			certification_level       TEXT NOT NULL DEFAULT 'Novice',
			note                      TEXT NOT NULL DEFAULT '',
			accepted                  BOOLEAN NOT NULL DEFAULT FALSE,
			date_bid                  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (job_id, bidder)
		)`,
		`CREATE TABLE IF NOT EXISTS service_requests (
			request_id       UUID PRIMARY KEY,
			customer         UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			store_owner      UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			description      TEXT NOT NULL,
			total_copper     INTEGER NOT NULL DEFAULT 0,
			timeline         TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL DEFAULT 'pending',
			feedback_message TEXT,
			job_id           UUID REFERENCES jobs(job_id) ON DELETE SET NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			notification_id UUID PRIMARY KEY,
			recipient       UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			content         TEXT NOT NULL,
			type            TEXT NOT NULL,
			link            TEXT,
			is_read         BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			relayed_at      TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status_posted ON jobs (status, date_posted DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_job ON bids (job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient, timestamp DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	s.logger.Info("Database schema is up to date",
		slog.Int("statements", len(statements)),
	)
	return nil
}
