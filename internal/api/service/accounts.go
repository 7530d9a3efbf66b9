package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned by Register when the username is in use.
var ErrUsernameTaken = errors.New("username already taken")

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	InGameName string
}

// Register creates a user and their profile in one transaction. Profile
// creation is an explicit registration step, not a save hook.
func (m *Market) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		UserID:       uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	err = m.store.Transact(ctx, func(tx Store) error {
		if _, err := tx.GetUserByUsername(ctx, in.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		profile := &model.Profile{
			ProfileID:       uuid.New().String(),
			UserID:          user.UserID,
			InGameName:      in.InGameName,
			RecentCompleted: "[]",
		}
		return tx.CreateProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("User registered",
		slog.String("user_id", user.UserID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both come back as ErrUnauthorized so callers cannot probe for
// account existence.
func (m *Market) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := m.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// GetUser returns a user by id.
func (m *Market) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return m.store.GetUser(ctx, userID)
}

// UpdateProfileInput lists the optional profile fields a user may change.
type UpdateProfileInput struct {
	Bio          *string
	GameLocation *string
	InGameName   *string
}

// GetProfile returns a user's profile, creating an empty one for the owner
// when none exists yet.
func (m *Market) GetProfile(ctx context.Context, userID string, createMissing bool) (*model.Profile, error) {
	profile, err := m.store.GetProfileByUser(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !createMissing || !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	profile = &model.Profile{
		ProfileID:       uuid.New().String(),
		UserID:          userID,
		RecentCompleted: "[]",
	}
	if err := m.store.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies the actor's own profile changes. The reputation
// fields (completed_jobs, history, can_create_store) are never
// client-writable.
func (m *Market) UpdateProfile(ctx context.Context, actorID string, in UpdateProfileInput) (*model.Profile, error) {
	var updated *model.Profile
	err := m.store.Transact(ctx, func(tx Store) error {
		profile, err := tx.GetProfileByUser(ctx, actorID)
		if err != nil {
			return err
		}

		applyString(&profile.Bio, in.Bio)
		applyString(&profile.GameLocation, in.GameLocation)
		applyString(&profile.InGameName, in.InGameName)

		if err := tx.UpdateProfile(ctx, profile); err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
