package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const serviceRequestColumns = `
	request_id, customer, store_owner, description, total_copper, timeline,
	status, feedback_message, job_id, created_at, updated_at
`

func (s *Storage) CreateServiceRequest(ctx context.Context, sr *model.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (
			request_id, customer, store_owner, description, total_copper,
			timeline, status, feedback_message, job_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		sr.RequestID,
		sr.Customer,
		sr.StoreOwner,
		sr.Description,
		sr.TotalCopper,
		sr.Timeline,
		sr.Status,
		sr.FeedbackMessage,
		sr.JobID,
		sr.CreatedAt,
		sr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

func (s *Storage) GetServiceRequest(ctx context.Context, requestID string) (*model.ServiceRequest, error) {
	return s.getServiceRequest(ctx, requestID, false)
}

// GetServiceRequestForUpdate locks the request row so accept/deny cannot
// race each other on the same request.
func (s *Storage) GetServiceRequestForUpdate(ctx context.Context, requestID string) (*model.ServiceRequest, error) {
	return s.getServiceRequest(ctx, requestID, true)
}

func (s *Storage) getServiceRequest(ctx context.Context, requestID string, forUpdate bool) (*model.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE request_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var sr model.ServiceRequest
	if err := sqlx.GetContext(ctx, s.q, &sr, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return &sr, nil
}

func (s *Storage) UpdateServiceRequest(ctx context.Context, sr *model.ServiceRequest) error {
	query := `
		UPDATE service_requests SET
			status = $2,
			feedback_message = $3,
			job_id = $4,
			updated_at = $5
		WHERE request_id = $1
	`

	res, err := s.q.ExecContext(
		ctx,
		query,
		sr.RequestID,
		sr.Status,
		sr.FeedbackMessage,
		sr.JobID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update service request: %w", err)
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

// ListServiceRequestsForUser returns requests the user is a party to,
// whether as customer or store owner, newest first.
func (s *Storage) ListServiceRequestsForUser(ctx context.Context, userID string) ([]model.ServiceRequest, error) {
	query := `
		SELECT ` + serviceRequestColumns + `
		FROM service_requests
		WHERE customer = $1 OR store_owner = $1
		ORDER BY created_at DESC
	`

	var requests []model.ServiceRequest
	if err := sqlx.SelectContext(ctx, s.q, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}
