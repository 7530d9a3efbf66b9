package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const bidColumns = `
	bid_id, job_id, bidder, estimated_completion_time, proposed_price_copper,
	in_game_name, certification_level, note, accepted, date_bid
`

func (s *Storage) CreateBid(ctx context.Context, b *model.Bid) error {
	query := `
		INSERT INTO bids (
			bid_id, job_id, bidder, estimated_completion_time,
			proposed_price_copper, in_game_name, certification_level,
			note, accepted, date_bid
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		b.BidID,
		b.JobID,
		b.Bidder,
		b.EstimatedTime,
		b.ProposedCopper,
		b.InGameName,
		b.CertificationLevel,
		b.Note,
		b.Accepted,
		b.DateBid,
	)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

func (s *Storage) GetBid(ctx context.Context, bidID string) (*model.Bid, error) {
	return s.getBid(ctx, bidID, false)
}

// GetBidForUpdate locks the bid row for the remainder of the surrounding
// transaction. Every mutation that checks the accepted flag reads through
// this lock so the check-then-write cannot interleave with AcceptBid.
func (s *Storage) GetBidForUpdate(ctx context.Context, bidID string) (*model.Bid, error) {
	return s.getBid(ctx, bidID, true)
}

func (s *Storage) getBid(ctx context.Context, bidID string, forUpdate bool) (*model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bid_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var bid model.Bid
	if err := sqlx.GetContext(ctx, s.q, &bid, query, bidID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return &bid, nil
}

func (s *Storage) UpdateBid(ctx context.Context, b *model.Bid) error {
	query := `
		UPDATE bids SET
			estimated_completion_time = $2,
			proposed_price_copper = $3,
			in_game_name = $4,
			certification_level = $5,
			note = $6,
			accepted = $7
		WHERE bid_id = $1
	`

	res, err := s.q.ExecContext(
		ctx,
		query,
		b.BidID,
		b.EstimatedTime,
		b.ProposedCopper,
		b.InGameName,
		b.CertificationLevel,
		b.Note,
		b.Accepted,
	)
	if err != nil {
		return fmt.Errorf("failed to update bid: %w", err)
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

func (s *Storage) DeleteBid(ctx context.Context, bidID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM bids WHERE bid_id = $1`, bidID)
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
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

func (s *Storage) HasBid(ctx context.Context, jobID, bidder string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bids WHERE job_id = $1 AND bidder = $2)`
	if err := sqlx.GetContext(ctx, s.q, &exists, query, jobID, bidder); err != nil {
		return false, fmt.Errorf("failed to check for existing bid: %w", err)
	}
	return exists, nil
}

func (s *Storage) ListBidsForJob(ctx context.Context, jobID string) ([]model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE job_id = $1 ORDER BY date_bid ASC`

	var bids []model.Bid
	if err := sqlx.SelectContext(ctx, s.q, &bids, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list bids for job: %w", err)
	}
	return bids, nil
}

func (s *Storage) ListBidsByBidder(ctx context.Context, userID string) ([]model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bidder = $1 ORDER BY date_bid DESC`

	var bids []model.Bid
	if err := sqlx.SelectContext(ctx, s.q, &bids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bids by bidder: %w", err)
	}
	return bids, nil
}
