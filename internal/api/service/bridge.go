package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
)

// ServiceRequestInput carries the fields a customer supplies when asking a
// store owner for work directly.
type ServiceRequestInput struct {
	Description string
	Price       domain.Price
	TotalCopper int
	Timeline    string
}

// CreateServiceRequest opens a pending request from the customer to the
// store owner and notifies the owner.
func (m *Market) CreateServiceRequest(ctx context.Context, customerID, storeOwnerID string, in ServiceRequestInput) (*model.ServiceRequest, error) {
	now := time.Now()
	sr := &model.ServiceRequest{
		RequestID:   uuid.New().String(),
		Customer:    customerID,
		StoreOwner:  storeOwnerID,
		Description: in.Description,
		TotalCopper: domain.NormalizePrice(in.Price, in.TotalCopper),
		Timeline:    in.Timeline,
		Status:      string(domain.RequestStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		if err := tx.CreateServiceRequest(ctx, sr); err != nil {
			return err
		}

		n, err := emit(ctx, tx, storeOwnerID,
			fmt.Sprintf("You have received a new service request for '%s'.", sr.Description),
			domain.NotificationServiceRequest, "/service-requests/"+sr.RequestID)
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Service request created",
		slog.String("request_id", sr.RequestID),
		slog.String("customer", customerID),
		slog.String("store_owner", storeOwnerID),
	)

	m.afterCommit(ctx, created)
	return sr, nil
}

// AcceptServiceRequest converts a pending request into a Job plus an
// already-accepted Bid, all in one transaction: the job is owned by the
// customer, the bid by the store owner, both priced from the request. Both
// parties are notified.
func (m *Market) AcceptServiceRequest(ctx context.Context, actorID, requestID string) (*model.Job, error) {
	var job *model.Job
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		sr, err := tx.GetServiceRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if sr.StoreOwner != actorID {
			return domain.ErrUnauthorized
		}
		if domain.RequestStatus(sr.Status) != domain.RequestStatusPending {
			return domain.ErrInvalidState
		}

		customerProfile, err := tx.GetProfileByUser(ctx, sr.Customer)
		if err != nil {
			return err
		}
		ownerProfile, err := tx.GetProfileByUser(ctx, sr.StoreOwner)
		if err != nil {
			return err
		}

		job = &model.Job{
			JobID:          uuid.New().String(),
			PostedBy:       sr.Customer,
			InGameName:     customerProfile.InGameName,
			ItemsRequested: sr.Description,
			ItemCategory:   "Other",
			TotalCopper:    sr.TotalCopper,
			Deadline:       time.Now(),
			Status:         string(domain.JobStatusAccepted),
			DatePosted:     time.Now(),
		}
		if err := tx.CreateJob(ctx, job); err != nil {
			return err
		}

		bid := &model.Bid{
			BidID:          uuid.New().String(),
			JobID:          job.JobID,
			Bidder:         sr.StoreOwner,
			ProposedCopper: sr.TotalCopper,
			InGameName:     ownerProfile.InGameName,
			Accepted:       true,
			DateBid:        time.Now(),
		}
		if err := tx.CreateBid(ctx, bid); err != nil {
			return err
		}

		job.AcceptedBidID = sql.NullString{String: bid.BidID, Valid: true}
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}

		sr.JobID = sql.NullString{String: job.JobID, Valid: true}
		sr.Status = string(domain.RequestStatusAccepted)
		if err := tx.UpdateServiceRequest(ctx, sr); err != nil {
			return err
		}

		n, err := emit(ctx, tx, sr.Customer,
			"Your service request has been accepted.",
			domain.NotificationServiceRequest, "")
		if err != nil {
			return err
		}
		created = append(created, *n)

		n, err = emit(ctx, tx, sr.StoreOwner,
			"You have accepted a service request.",
			domain.NotificationServiceRequest, "")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Service request accepted",
		slog.String("request_id", requestID),
		slog.String("job_id", job.JobID),
	)

	m.afterCommit(ctx, created)
	return job, nil
}

// DenyServiceRequest moves a request to the terminal denied state and
// notifies the customer. A converted request can no longer be denied.
func (m *Market) DenyServiceRequest(ctx context.Context, actorID, requestID string) error {
	return m.transitionServiceRequest(ctx, actorID, requestID, domain.RequestStatusDenied,
		"Your service request has been denied.", "")
}

// RequestFeedback asks the customer for more information, storing the
// message on the request and linking the notification to the response view.
func (m *Market) RequestFeedback(ctx context.Context, actorID, requestID, message string) error {
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		sr, err := tx.GetServiceRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if sr.StoreOwner != actorID {
			return domain.ErrUnauthorized
		}
		if sr.JobID.Valid {
			return domain.ErrInvalidState
		}

		sr.Status = string(domain.RequestStatusFeedback)
		sr.FeedbackMessage = sql.NullString{String: message, Valid: true}
		if err := tx.UpdateServiceRequest(ctx, sr); err != nil {
			return err
		}

		n, err := emit(ctx, tx, sr.Customer,
			"Feedback requested on your service request: "+message,
			domain.NotificationServiceRequest, "/service-requests/"+sr.RequestID+"/respond")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return err
	}

	m.afterCommit(ctx, created)
	return nil
}

// CompleteServiceRequest marks an unconverted request completed and
// notifies the customer.
func (m *Market) CompleteServiceRequest(ctx context.Context, actorID, requestID string) error {
	return m.transitionServiceRequest(ctx, actorID, requestID, domain.RequestStatusCompleted,
		"Service request marked as completed.", "")
}

// transitionServiceRequest applies a store-owner-only status change to an
// unconverted request. Once a request has spawned a job its lifecycle
// funnels through that job instead.
func (m *Market) transitionServiceRequest(ctx context.Context, actorID, requestID string, to domain.RequestStatus, content, link string) error {
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		sr, err := tx.GetServiceRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if sr.StoreOwner != actorID {
			return domain.ErrUnauthorized
		}
		if sr.JobID.Valid {
			return domain.ErrInvalidState
		}

		sr.Status = string(to)
		if err := tx.UpdateServiceRequest(ctx, sr); err != nil {
			return err
		}

		n, err := emit(ctx, tx, sr.Customer, content, domain.NotificationServiceRequest, link)
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Service request transitioned",
		slog.String("request_id", requestID),
		slog.String("status", string(to)),
	)

	m.afterCommit(ctx, created)
	return nil
}

// GetServiceRequest returns a request visible only to its two parties.
func (m *Market) GetServiceRequest(ctx context.Context, actorID, requestID string) (*model.ServiceRequest, error) {
	sr, err := m.store.GetServiceRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sr.Customer != actorID && sr.StoreOwner != actorID {
		return nil, domain.ErrUnauthorized
	}
	return sr, nil
}

// ListServiceRequests returns requests the actor is a party to.
func (m *Market) ListServiceRequests(ctx context.Context, actorID string) ([]model.ServiceRequest, error) {
	return m.store.ListServiceRequestsForUser(ctx, actorID)
}
