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

const jobColumns = `
	job_id, posted_by, in_game_name, server, node, items_requested,
	item_category, total_copper, deadline, special_notes, status,
	accepted_bid_id, date_posted, completed_date, delivered_date
`

func (s *Storage) CreateJob(ctx context.Context, j *model.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, posted_by, in_game_name, server, node, items_requested,
			item_category, total_copper, deadline, special_notes, status,
			accepted_bid_id, date_posted, completed_date, delivered_date
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		j.JobID,
		j.PostedBy,
		j.InGameName,
		j.Server,
		j.Node,
		j.ItemsRequested,
		j.ItemCategory,
		j.TotalCopper,
		j.Deadline,
		j.SpecialNotes,
		j.Status,
		j.AcceptedBidID,
		j.DatePosted,
		j.CompletedDate,
		j.DeliveredDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *Storage) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	return s.getJob(ctx, jobID, false)
}

// GetJobForUpdate locks the job row for the remainder of the surrounding
// transaction. This is the serialization point that makes the accepted-bid
// check race-free.
func (s *Storage) GetJobForUpdate(ctx context.Context, jobID string) (*model.Job, error) {
	return s.getJob(ctx, jobID, true)
}

func (s *Storage) getJob(ctx context.Context, jobID string, forUpdate bool) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var job model.Job
	if err := sqlx.GetContext(ctx, s.q, &job, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (s *Storage) UpdateJob(ctx context.Context, j *model.Job) error {
	query := `
		UPDATE jobs SET
			in_game_name = $2,
			server = $3,
			node = $4,
			items_requested = $5,
			item_category = $6,
			total_copper = $7,
			deadline = $8,
			special_notes = $9,
			status = $10,
			accepted_bid_id = $11,
			completed_date = $12,
			delivered_date = $13
		WHERE job_id = $1
	`

	res, err := s.q.ExecContext(
		ctx,
		query,
		j.JobID,
		j.InGameName,
		j.Server,
		j.Node,
		j.ItemsRequested,
		j.ItemCategory,
		j.TotalCopper,
		j.Deadline,
		j.SpecialNotes,
		j.Status,
		j.AcceptedBidID,
		j.CompletedDate,
		j.DeliveredDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
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

// ListOpenJobs returns jobs still open for bidding, newest first, using
// page-number pagination.
func (s *Storage) ListOpenJobs(ctx context.Context, page, pageSize int) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = $1
		ORDER BY date_posted DESC, job_id DESC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * pageSize
	var jobs []model.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, domain.JobStatusPosted, pageSize, offset); err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return jobs, nil
}

func (s *Storage) ListJobsByPoster(ctx context.Context, userID string) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE posted_by = $1
		ORDER BY date_posted DESC, job_id DESC
	`

	var jobs []model.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list jobs by poster: %w", err)
	}
	return jobs, nil
}
