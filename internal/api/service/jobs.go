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

// PostJobInput carries the fields a poster supplies when creating a job.
type PostJobInput struct {
	InGameName     string
	Server         string
	Node           string
	ItemsRequested string
	ItemCategory   string
	Price          domain.Price
	TotalCopper    int
	Deadline       time.Time
	SpecialNotes   string
}

// PlaceBidInput carries the fields a bidder supplies with a new bid.
type PlaceBidInput struct {
	EstimatedTime      string
	Price              domain.Price
	ProposedCopper     int
	InGameName         string
	CertificationLevel string
	Note               string
}

// UpdateJobInput lists the optional fields of a job update. Nil means
// "leave unchanged". Supplying any currency component re-normalizes the
// total from the merged components; an explicit total wins outright.
type UpdateJobInput struct {
	InGameName     *string
	Server         *string
	Node           *string
	ItemsRequested *string
	ItemCategory   *string
	Gold           *int
	Silver         *int
	Copper         *int
	TotalCopper    *int
	Deadline       *time.Time
	SpecialNotes   *string
}

// UpdateBidInput lists the optional fields of a bid update.
type UpdateBidInput struct {
	EstimatedTime      *string
	Gold               *int
	Silver             *int
	Copper             *int
	TotalCopper        *int
	InGameName         *string
	CertificationLevel *string
	Note               *string
}

// PostJob creates a job in the posted state and notifies the poster.
func (m *Market) PostJob(ctx context.Context, actorID string, in PostJobInput) (*model.Job, error) {
	job := &model.Job{
		JobID:          uuid.New().String(),
		PostedBy:       actorID,
		InGameName:     in.InGameName,
		Server:         in.Server,
		Node:           in.Node,
		ItemsRequested: in.ItemsRequested,
		ItemCategory:   in.ItemCategory,
		TotalCopper:    domain.NormalizePrice(in.Price, in.TotalCopper),
		Deadline:       in.Deadline,
		SpecialNotes:   in.SpecialNotes,
		Status:         string(domain.JobStatusPosted),
		DatePosted:     time.Now(),
	}

	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		if err := tx.CreateJob(ctx, job); err != nil {
			return err
		}

		n, err := emit(ctx, tx, actorID,
			fmt.Sprintf("Your job '%s' has been posted.", job.ItemsRequested),
			domain.NotificationJobStatus, "/my-jobs/")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Job posted",
		slog.String("job_id", job.JobID),
		slog.String("posted_by", actorID),
		slog.Int("total_copper", job.TotalCopper),
	)

	m.afterCommit(ctx, created)
	return job, nil
}

// PlaceBid creates a bid on an open job and notifies the poster. A bidder
// gets one bid per job, and no new bids are taken once a bid is accepted.
func (m *Market) PlaceBid(ctx context.Context, actorID, jobID string, in PlaceBidInput) (*model.Bid, error) {
	bid := &model.Bid{
		BidID:              uuid.New().String(),
		JobID:              jobID,
		Bidder:             actorID,
		EstimatedTime:      in.EstimatedTime,
		ProposedCopper:     domain.NormalizePrice(in.Price, in.ProposedCopper),
		InGameName:         in.InGameName,
		CertificationLevel: in.CertificationLevel,
		Note:               in.Note,
		Accepted:           false,
		DateBid:            time.Now(),
	}

	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.AcceptedBidID.Valid {
			return domain.ErrAlreadyAccepted
		}

		exists, err := tx.HasBid(ctx, jobID, actorID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateBid
		}

		if err := tx.CreateBid(ctx, bid); err != nil {
			return err
		}

		n, err := emit(ctx, tx, job.PostedBy,
			fmt.Sprintf("A new bid has been placed on your job '%s'.", job.ItemsRequested),
			domain.NotificationNewBid, "/my-jobs/")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Bid placed",
		slog.String("bid_id", bid.BidID),
		slog.String("job_id", jobID),
		slog.String("bidder", actorID),
	)

	m.afterCommit(ctx, created)
	return bid, nil
}

// AcceptBid marks a bid accepted and moves the job to the accepted state.
// The bid flag, the job's accepted_bid reference and the status change are
// one atomic unit; the job row lock makes a concurrent second accept
// observe the reference and fail with ErrAlreadyAccepted, and the bid row
// lock serializes the accept against a concurrent edit or withdrawal of
// the same bid.
func (m *Market) AcceptBid(ctx context.Context, actorID, jobID, bidID string) error {
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.PostedBy != actorID {
			return domain.ErrUnauthorized
		}
		if job.AcceptedBidID.Valid {
			return domain.ErrAlreadyAccepted
		}

		bid, err := tx.GetBidForUpdate(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.JobID != jobID {
			return domain.ErrNotFound
		}

		bid.Accepted = true
		if err := tx.UpdateBid(ctx, bid); err != nil {
			return err
		}

		job.AcceptedBidID = sql.NullString{String: bid.BidID, Valid: true}
		job.Status = string(domain.JobStatusAccepted)
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}

		n, err := emit(ctx, tx, bid.Bidder,
			fmt.Sprintf("Your bid for the job '%s' has been accepted!", job.ItemsRequested),
			domain.NotificationJobStatus, "/my-bids/")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Bid accepted",
		slog.String("job_id", jobID),
		slog.String("bid_id", bidID),
	)

	m.afterCommit(ctx, created)
	return nil
}

// MarkCompleted moves an accepted job to completed, stamps the completion
// time, and notifies the poster.
func (m *Market) MarkCompleted(ctx context.Context, actorID, jobID string) error {
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if domain.JobStatus(job.Status) != domain.JobStatusAccepted {
			return domain.ErrInvalidState
		}

		job.Status = string(domain.JobStatusCompleted)
		job.CompletedDate = sql.NullTime{Time: time.Now(), Valid: true}
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}

		n, err := emit(ctx, tx, job.PostedBy,
			fmt.Sprintf("The job '%s' has been marked as completed by the bidder.", job.ItemsRequested),
			domain.NotificationBidUpdate, "/my-jobs/")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Job marked completed",
		slog.String("job_id", jobID),
		slog.String("actor", actorID),
	)

	m.afterCommit(ctx, created)
	return nil
}

// MarkDelivered moves a completed job to delivered, credits both parties'
// profiles and history ledgers, and notifies the accepted bidder. When the
// job somehow has no accepted bid the bidder-side effects are skipped with
// a warning; the status change still commits.
func (m *Market) MarkDelivered(ctx context.Context, actorID, jobID string) error {
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if domain.JobStatus(job.Status) != domain.JobStatusCompleted {
			return domain.ErrInvalidState
		}

		deliveredAt := time.Now()
		job.Status = string(domain.JobStatusDelivered)
		job.DeliveredDate = sql.NullTime{Time: deliveredAt, Valid: true}
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}

		if err := creditDelivery(ctx, tx, job.PostedBy, job.ItemsRequested, deliveredAt); err != nil {
			return err
		}

		if !job.AcceptedBidID.Valid {
			m.logger.Warn("Delivered job has no accepted bid, skipping bidder credit",
				slog.String("job_id", job.JobID),
				slog.Any("error", domain.ErrNoAcceptedBid),
			)
			return nil
		}

		bid, err := tx.GetBid(ctx, job.AcceptedBidID.String)
		if err != nil {
			return err
		}
		if err := creditDelivery(ctx, tx, bid.Bidder, job.ItemsRequested, deliveredAt); err != nil {
			return err
		}

		n, err := emit(ctx, tx, bid.Bidder,
			fmt.Sprintf("The job '%s' has been marked as delivered!", job.ItemsRequested),
			domain.NotificationJobStatus, "/my-bids/")
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Job marked delivered",
		slog.String("job_id", jobID),
		slog.String("actor", actorID),
	)

	m.afterCommit(ctx, created)
	return nil
}

// creditDelivery bumps a party's completed-jobs counter and appends the
// delivery to their bounded history ledger.
func creditDelivery(ctx context.Context, tx Store, userID, itemsRequested string, deliveredAt time.Time) error {
	profile, err := tx.GetProfileByUser(ctx, userID)
	if err != nil {
		return err
	}
	profile.CompletedJobs++
	profile.RecentCompleted = domain.AppendHistory(profile.RecentCompleted, itemsRequested, deliveredAt)
	return tx.UpdateProfile(ctx, profile)
}

// UpdateJob applies a poster's field changes, re-normalizes the price, and
// notifies every existing bidder of the change.
func (m *Market) UpdateJob(ctx context.Context, actorID, jobID string, in UpdateJobInput) (*model.Job, error) {
	var updated *model.Job
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.PostedBy != actorID {
			return domain.ErrUnauthorized
		}

		applyString(&job.InGameName, in.InGameName)
		applyString(&job.Server, in.Server)
		applyString(&job.Node, in.Node)
		applyString(&job.ItemsRequested, in.ItemsRequested)
		applyString(&job.ItemCategory, in.ItemCategory)
		applyString(&job.SpecialNotes, in.SpecialNotes)
		if in.Deadline != nil {
			job.Deadline = *in.Deadline
		}
		job.TotalCopper = renormalize(job.TotalCopper, in.Gold, in.Silver, in.Copper, in.TotalCopper)

		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}

		bids, err := tx.ListBidsForJob(ctx, jobID)
		if err != nil {
			return err
		}
		for _, bid := range bids {
			n, err := emit(ctx, tx, bid.Bidder,
				fmt.Sprintf("The job '%s' has been updated.", job.ItemsRequested),
				domain.NotificationJobUpdate, "/my-bids/")
			if err != nil {
				return err
			}
			created = append(created, *n)
		}

		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Job updated",
		slog.String("job_id", jobID),
		slog.Int("bidders_notified", len(created)),
	)

	m.afterCommit(ctx, created)
	return updated, nil
}

// UpdateBid applies a bidder's changes to their own unaccepted bid and
// notifies the job poster.
func (m *Market) UpdateBid(ctx context.Context, actorID, bidID string, in UpdateBidInput) (*model.Bid, error) {
	var updated *model.Bid
	var created []model.Notification
	err := m.store.Transact(ctx, func(tx Store) error {
		bid, err := tx.GetBidForUpdate(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.Bidder != actorID {
			return domain.ErrUnauthorized
		}
		if bid.Accepted {
			return domain.ErrCannotModifyAccepted
		}

		applyString(&bid.EstimatedTime, in.EstimatedTime)
		applyString(&bid.InGameName, in.InGameName)
		applyString(&bid.CertificationLevel, in.CertificationLevel)
		applyString(&bid.Note, in.Note)
		bid.ProposedCopper = renormalize(bid.ProposedCopper, in.Gold, in.Silver, in.Copper, in.TotalCopper)

		if err := tx.UpdateBid(ctx, bid); err != nil {
			return err
		}

		job, err := tx.GetJob(ctx, bid.JobID)
		if err != nil {
			return err
		}

		n, err := emit(ctx, tx, job.PostedBy,
			fmt.Sprintf("A bid on your job '%s' has been updated.", job.ItemsRequested),
			domain.NotificationBidUpdate, "/my-jobs/")
		if err != nil {
			return err
		}
		created = append(created, *n)

		updated = bid
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Bid updated",
		slog.String("bid_id", bidID),
		slog.String("bidder", actorID),
	)

	m.afterCommit(ctx, created)
	return updated, nil
}

// DeleteBid removes a bidder's own unaccepted bid.
func (m *Market) DeleteBid(ctx context.Context, actorID, bidID string) error {
	err := m.store.Transact(ctx, func(tx Store) error {
		bid, err := tx.GetBidForUpdate(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.Bidder != actorID {
			return domain.ErrUnauthorized
		}
		if bid.Accepted {
			return domain.ErrCannotModifyAccepted
		}
		return tx.DeleteBid(ctx, bidID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("Bid deleted",
		slog.String("bid_id", bidID),
		slog.String("bidder", actorID),
	)
	return nil
}

// GetJob returns a single job by id.
func (m *Market) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	return m.store.GetJob(ctx, jobID)
}

// ListOpenJobs returns jobs still accepting bids, newest first.
func (m *Market) ListOpenJobs(ctx context.Context, page, pageSize int) ([]model.Job, error) {
	return m.store.ListOpenJobs(ctx, page, pageSize)
}

// ListMyJobs returns every job the actor has posted, regardless of status.
func (m *Market) ListMyJobs(ctx context.Context, actorID string) ([]model.Job, error) {
	return m.store.ListJobsByPoster(ctx, actorID)
}

// ListMyBids returns every bid the actor has placed.
func (m *Market) ListMyBids(ctx context.Context, actorID string) ([]model.Bid, error) {
	return m.store.ListBidsByBidder(ctx, actorID)
}

// ListBidsForJob returns a job's bids; only the poster may see them.
func (m *Market) ListBidsForJob(ctx context.Context, actorID, jobID string) ([]model.Bid, error) {
	job, err := m.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != actorID {
		return nil, domain.ErrUnauthorized
	}
	return m.store.ListBidsForJob(ctx, jobID)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// renormalize merges optional currency fields into an existing total. An
// explicit total wins; otherwise any supplied component is overlaid on the
// decomposition of the current total and the result re-normalized.
func renormalize(current int, gold, silver, copper, total *int) int {
	if total != nil {
		return *total
	}
	if gold == nil && silver == nil && copper == nil {
		return current
	}
	p := domain.DecomposePrice(current)
	if gold != nil {
		p.Gold = *gold
	}
	if silver != nil {
		p.Silver = *silver
	}
	if copper != nil {
		p.Copper = *copper
	}
	return domain.NormalizePrice(p, 0)
}
