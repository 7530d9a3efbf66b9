package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
	"github.com/guildworks/marketboard/internal/api/service"
	"github.com/jmoiron/sqlx"
)

// uniqueViolation is the PostgreSQL error code for a unique index conflict.
const uniqueViolation = "23505"

func (s *Storage) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (user_id, username, email, password_hash, is_staff, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.q.ExecContext(ctx, query, u.UserID, u.Username, u.Email, u.PasswordHash, u.IsStaff, u.CreatedAt)
	if err != nil {
		// Two registrations can race past the uniqueness read; the index
		// settles it and the loser gets the same error as the read path.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return service.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, is_staff, created_at
		FROM users
		WHERE user_id = $1
	`

	var user model.User
	if err := sqlx.GetContext(ctx, s.q, &user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, is_staff, created_at
		FROM users
		WHERE username = $1
	`

	var user model.User
	if err := sqlx.GetContext(ctx, s.q, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (s *Storage) CreateProfile(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (
			profile_id, user_id, bio, game_location, in_game_name,
			completed_jobs, recent_completed_jobs, can_create_store
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		p.ProfileID,
		p.UserID,
		p.Bio,
		p.GameLocation,
		p.InGameName,
		p.CompletedJobs,
		p.RecentCompleted,
		p.CanCreateStore,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *Storage) GetProfileByUser(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT profile_id, user_id, bio, game_location, in_game_name,
		       completed_jobs, recent_completed_jobs, can_create_store
		FROM profiles
		WHERE user_id = $1
	`

	var profile model.Profile
	if err := sqlx.GetContext(ctx, s.q, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles SET
			bio = $2,
			game_location = $3,
			in_game_name = $4,
			completed_jobs = $5,
			recent_completed_jobs = $6,
			can_create_store = $7
		WHERE profile_id = $1
	`

	res, err := s.q.ExecContext(
		ctx,
		query,
		p.ProfileID,
		p.Bio,
		p.GameLocation,
		p.InGameName,
		p.CompletedJobs,
		p.RecentCompleted,
		p.CanCreateStore,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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
