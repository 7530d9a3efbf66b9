// Package storage implements the service.Store persistence boundary on
// PostgreSQL via sqlx.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guildworks/marketboard/internal/api/service"
	"github.com/guildworks/marketboard/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage runs queries against either the root connection pool or, after
// Transact, a transaction. q is the active querier; db is kept to open
// transactions from the root store.
type Storage struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	logger *slog.Logger
}

var _ service.Store = (*Storage)(nil)

func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	db := pg.GetDB()
	return &Storage{
		db:     db,
		q:      db,
		logger: logger,
	}
}

// Transact runs fn against a transaction-bound Storage. The transaction is
// rolled back when fn returns an error and committed otherwise. Nested calls
// are not supported; the state machine never nests them.
func (s *Storage) Transact(ctx context.Context, fn func(service.Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Storage{db: s.db, q: tx, logger: s.logger}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction",
				slog.Any("error", rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
