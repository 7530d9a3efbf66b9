// Package dto defines the HTTP request and response shapes. Update payloads
// use pointer fields so "absent" and "zero" stay distinguishable.
package dto

import (
	"time"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination is the shared page-number query contract.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Window returns the effective page and page size, clamped to the limits.
func (p Pagination) Window() (page, pageSize int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	pageSize = p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

type RegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	InGameName string `json:"in_game_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func NewUserDTO(u *model.User) UserDTO {
	return UserDTO{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}

type PostJobRequest struct {
	InGameName     string `json:"in_game_name" binding:"required"`
	Server         string `json:"server" binding:"required"`
	Node           string `json:"node" binding:"required"`
	ItemsRequested string `json:"items_requested" binding:"required"`
	ItemCategory   string `json:"item_category" binding:"required"`
	Gold           int    `json:"gold" binding:"min=0"`
	Silver         int    `json:"silver" binding:"min=0,max=99"`
	Copper         int    `json:"copper" binding:"min=0,max=99"`
	TotalCopper    int    `json:"total_copper" binding:"min=0"`
	Deadline       string `json:"deadline" binding:"required"`
	SpecialNotes   string `json:"special_notes"`
}

type UpdateJobRequest struct {
	InGameName     *string `json:"in_game_name"`
	Server         *string `json:"server"`
	Node           *string `json:"node"`
	ItemsRequested *string `json:"items_requested"`
	ItemCategory   *string `json:"item_category"`
	Gold           *int    `json:"gold"`
	Silver         *int    `json:"silver"`
	Copper         *int    `json:"copper"`
	TotalCopper    *int    `json:"total_copper"`
	Deadline       *string `json:"deadline"`
	SpecialNotes   *string `json:"special_notes"`
}

type JobDTO struct {
	JobID          string `json:"job_id"`
	PostedBy       string `json:"posted_by"`
	InGameName     string `json:"in_game_name"`
	Server         string `json:"server"`
	Node           string `json:"node"`
	ItemsRequested string `json:"items_requested"`
	ItemCategory   string `json:"item_category"`
	Gold           int    `json:"gold"`
	Silver         int    `json:"silver"`
	Copper         int    `json:"copper"`
	TotalCopper    int    `json:"total_copper"`
	Deadline       string `json:"deadline"`
	SpecialNotes   string `json:"special_notes"`
	Status         string `json:"status"`
	AcceptedBidID  string `json:"accepted_bid_id,omitempty"`
	DatePosted     string `json:"date_posted"`
	CompletedDate  string `json:"completed_date,omitempty"`
	DeliveredDate  string `json:"delivered_date,omitempty"`
}

func NewJobDTO(j *model.Job) JobDTO {
	price := domain.DecomposePrice(j.TotalCopper)
	d := JobDTO{
		JobID:          j.JobID,
		PostedBy:       j.PostedBy,
		InGameName:     j.InGameName,
		Server:         j.Server,
		Node:           j.Node,
		ItemsRequested: j.ItemsRequested,
		ItemCategory:   j.ItemCategory,
		Gold:           price.Gold,
		Silver:         price.Silver,
		Copper:         price.Copper,
		TotalCopper:    j.TotalCopper,
		Deadline:       j.Deadline.Format("2006-01-02"),
		SpecialNotes:   j.SpecialNotes,
		Status:         j.Status,
		DatePosted:     j.DatePosted.Format(time.RFC3339),
	}
	if j.AcceptedBidID.Valid {
		d.AcceptedBidID = j.AcceptedBidID.String
	}
	if j.CompletedDate.Valid {
		d.CompletedDate = j.CompletedDate.Time.Format(time.RFC3339)
	}
	if j.DeliveredDate.Valid {
		d.DeliveredDate = j.DeliveredDate.Time.Format(time.RFC3339)
	}
	return d
}

func NewJobDTOs(jobs []model.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i := range jobs {
		out[i] = NewJobDTO(&jobs[i])
	}
	return out
}

type PlaceBidRequest struct {
	EstimatedTime      string `json:"estimated_completion_time" binding:"required"`
	Gold               int    `json:"gold" binding:"min=0"`
	Silver             int    `json:"silver" binding:"min=0,max=99"`
	Copper             int    `json:"copper" binding:"min=0,max=99"`
	TotalCopper        int    `json:"total_copper" binding:"min=0"`
	InGameName         string `json:"in_game_name" binding:"required"`
	CertificationLevel string `json:"certification_level" binding:"required"`
	Note               string `json:"note"`
}

type UpdateBidRequest struct {
	EstimatedTime      *string `json:"estimated_completion_time"`
	Gold               *int    `json:"gold"`
	Silver             *int    `json:"silver"`
	Copper             *int    `json:"copper"`
	TotalCopper        *int    `json:"total_copper"`
	InGameName         *string `json:"in_game_name"`
	CertificationLevel *string `json:"certification_level"`
	Note               *string `json:"note"`
}

type BidDTO struct {
	BidID              string `json:"bid_id"`
	JobID              string `json:"job_id"`
	Bidder             string `json:"bidder"`
	EstimatedTime      string `json:"estimated_completion_time"`
	Gold               int    `json:"gold"`
	Silver             int    `json:"silver"`
	Copper             int    `json:"copper"`
	ProposedCopper     int    `json:"proposed_price_copper"`
	InGameName         string `json:"in_game_name"`
	CertificationLevel string `json:"certification_level"`
	Note               string `json:"note"`
	Accepted           bool   `json:"accepted"`
	DateBid            string `json:"date_bid"`
}

func NewBidDTO(b *model.Bid) BidDTO {
	price := domain.DecomposePrice(b.ProposedCopper)
	return BidDTO{
		BidID:              b.BidID,
		JobID:              b.JobID,
		Bidder:             b.Bidder,
		EstimatedTime:      b.EstimatedTime,
		Gold:               price.Gold,
		Silver:             price.Silver,
		Copper:             price.Copper,
		ProposedCopper:     b.ProposedCopper,
		InGameName:         b.InGameName,
		CertificationLevel: b.CertificationLevel,
		Note:               b.Note,
		Accepted:           b.Accepted,
		DateBid:            b.DateBid.Format(time.RFC3339),
	}
}

func NewBidDTOs(bids []model.Bid) []BidDTO {
	out := make([]BidDTO, len(bids))
	for i := range bids {
		out[i] = NewBidDTO(&bids[i])
	}
	return out
}

type AcceptBidRequest struct {
	BidID string `json:"bid_id" binding:"required"`
}

type CreateServiceRequestRequest struct {
	StoreOwner  string `json:"store_owner" binding:"required"`
	Description string `json:"description" binding:"required"`
	Gold        int    `json:"gold" binding:"min=0"`
	Silver      int    `json:"silver" binding:"min=0,max=99"`
	Copper      int    `json:"copper" binding:"min=0,max=99"`
	TotalCopper int    `json:"total_copper" binding:"min=0"`
	Timeline    string `json:"timeline"`
}

type FeedbackRequest struct {
	Message string `json:"message" binding:"required"`
}

type ServiceRequestDTO struct {
	RequestID       string `json:"request_id"`
	Customer        string `json:"customer"`
	StoreOwner      string `json:"store_owner"`
	Description     string `json:"description"`
	Gold            int    `json:"gold"`
	Silver          int    `json:"silver"`
	Copper          int    `json:"copper"`
	TotalCopper     int    `json:"total_copper"`
	Timeline        string `json:"timeline"`
	Status          string `json:"status"`
	FeedbackMessage string `json:"feedback_message,omitempty"`
	JobID           string `json:"job_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func NewServiceRequestDTO(sr *model.ServiceRequest) ServiceRequestDTO {
	price := domain.DecomposePrice(sr.TotalCopper)
	d := ServiceRequestDTO{
		RequestID:   sr.RequestID,
		Customer:    sr.Customer,
		StoreOwner:  sr.StoreOwner,
		Description: sr.Description,
		Gold:        price.Gold,
		Silver:      price.Silver,
		Copper:      price.Copper,
		TotalCopper: sr.TotalCopper,
		Timeline:    sr.Timeline,
		Status:      sr.Status,
		CreatedAt:   sr.CreatedAt.Format(time.RFC3339),
	}
	if sr.FeedbackMessage.Valid {
		d.FeedbackMessage = sr.FeedbackMessage.String
	}
	if sr.JobID.Valid {
		d.JobID = sr.JobID.String
	}
	return d
}

func NewServiceRequestDTOs(requests []model.ServiceRequest) []ServiceRequestDTO {
	out := make([]ServiceRequestDTO, len(requests))
	for i := range requests {
		out[i] = NewServiceRequestDTO(&requests[i])
	}
	return out
}

type CustomMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ListNotificationsRequest struct {
	Pagination
	Unread bool `form:"unread"`
}

type NotificationDTO struct {
	NotificationID string `json:"notification_id"`
	Content        string `json:"content"`
	Type           string `json:"type"`
	Link           string `json:"link,omitempty"`
	IsRead         bool   `json:"is_read"`
	Timestamp      string `json:"timestamp"`
}

func NewNotificationDTO(n *model.Notification) NotificationDTO {
	d := NotificationDTO{
		NotificationID: n.NotificationID,
		Content:        n.Content,
		Type:           n.Type,
		IsRead:         n.IsRead,
		Timestamp:      n.Timestamp.Format(time.RFC3339),
	}
	if n.Link.Valid {
		d.Link = n.Link.String
	}
	return d
}

func NewNotificationDTOs(notifications []model.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i := range notifications {
		out[i] = NewNotificationDTO(&notifications[i])
	}
	return out
}

type UpdateProfileRequest struct {
	Bio          *string `json:"bio"`
	GameLocation *string `json:"game_location"`
	InGameName   *string `json:"in_game_name"`
}

type ProfileDTO struct {
	UserID         string                `json:"user_id"`
	Bio            string                `json:"bio"`
	GameLocation   string                `json:"game_location"`
	InGameName     string                `json:"in_game_name"`
	CompletedJobs  int                   `json:"completed_jobs"`
	RecentHistory  []domain.HistoryEntry `json:"recent_completed_jobs"`
	CanCreateStore bool                  `json:"can_create_store"`
}

func NewProfileDTO(p *model.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:         p.UserID,
		Bio:            p.Bio,
		GameLocation:   p.GameLocation,
		InGameName:     p.InGameName,
		CompletedJobs:  p.CompletedJobs,
		RecentHistory:  domain.ParseHistory(p.RecentCompleted),
		CanCreateStore: p.CanCreateStore,
	}
}
