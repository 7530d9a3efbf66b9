package service

import (
	"context"

	"github.com/guildworks/marketboard/internal/api/model"
)

// Store is the persistence boundary consumed by the state machine. The sqlx
// implementation lives in internal/api/storage; tests use an in-memory double.
//
// Transact runs fn against a transaction-scoped Store and commits only when
// fn returns nil. Every multi-write transition (AcceptBid, MarkDelivered,
// ServiceRequest accept) runs inside Transact so no partial state is ever
// visible. The ForUpdate getters take a row lock inside a transaction,
// serializing concurrent transitions on the same job or request.
type Store interface {
	Transact(ctx context.Context, fn func(Store) error) error

	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error

	GetProfileByUser(ctx context.Context, userID string) (*model.Profile, error)
	CreateProfile(ctx context.Context, p *model.Profile) error
	UpdateProfile(ctx context.Context, p *model.Profile) error

	CreateJob(ctx context.Context, j *model.Job) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	GetJobForUpdate(ctx context.Context, jobID string) (*model.Job, error)
	UpdateJob(ctx context.Context, j *model.Job) error
	ListOpenJobs(ctx context.Context, page, pageSize int) ([]model.Job, error)
	ListJobsByPoster(ctx context.Context, userID string) ([]model.Job, error)

	CreateBid(ctx context.Context, b *model.Bid) error
	GetBid(ctx context.Context, bidID string) (*model.Bid, error)
	GetBidForUpdate(ctx context.Context, bidID string) (*model.Bid, error)
	UpdateBid(ctx context.Context, b *model.Bid) error
	DeleteBid(ctx context.Context, bidID string) error
	HasBid(ctx context.Context, jobID, bidder string) (bool, error)
	ListBidsForJob(ctx context.Context, jobID string) ([]model.Bid, error)
	ListBidsByBidder(ctx context.Context, userID string) ([]model.Bid, error)

	CreateServiceRequest(ctx context.Context, sr *model.ServiceRequest) error
	GetServiceRequest(ctx context.Context, requestID string) (*model.ServiceRequest, error)
	GetServiceRequestForUpdate(ctx context.Context, requestID string) (*model.ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, sr *model.ServiceRequest) error
	ListServiceRequestsForUser(ctx context.Context, userID string) ([]model.ServiceRequest, error)

	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, recipient string, unreadOnly bool, page, pageSize int) ([]model.Notification, error)
	CountUnread(ctx context.Context, recipient string) (int, error)
	MarkNotificationRead(ctx context.Context, notificationID, recipient string) error
}
