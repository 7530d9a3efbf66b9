package model

import (
	"database/sql"
	"time"
)

// User is an account able to post jobs, bid, and receive notifications.
type User struct {
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsStaff      bool      `db:"is_staff"`
	CreatedAt    time.Time `db:"created_at"`
}

// Profile extends a user with marketplace reputation data. RecentCompleted
// holds the bounded history ledger encoded as JSON.
type Profile struct {
	ProfileID       string `db:"profile_id"`
	UserID          string `db:"user_id"`
	Bio             string `db:"bio"`
	GameLocation    string `db:"game_location"`
	InGameName      string `db:"in_game_name"`
	CompletedJobs   int    `db:"completed_jobs"`
	RecentCompleted string `db:"recent_completed_jobs"`
	CanCreateStore  bool   `db:"can_create_store"`
}

// Job is a posted request for in-game items or services.
type Job struct {
	JobID          string         `db:"job_id"`
	PostedBy       string         `db:"posted_by"`
	InGameName     string         `db:"in_game_name"`
	Server         string         `db:"server"`
	Node           string         `db:"node"`
	ItemsRequested string         `db:"items_requested"`
	ItemCategory   string         `db:"item_category"`
	TotalCopper    int            `db:"total_copper"`
	Deadline       time.Time      `db:"deadline"`
	SpecialNotes   string         `db:"special_notes"`
	Status         string         `db:"status"`
	AcceptedBidID  sql.NullString `db:"accepted_bid_id"`
	DatePosted     time.Time      `db:"date_posted"`
	CompletedDate  sql.NullTime   `db:"completed_date"`
	DeliveredDate  sql.NullTime   `db:"delivered_date"`
}

// Bid is a fulfiller's priced proposal against a job. One bid per
// (job, bidder) pair; at most one accepted bid per job.
type Bid struct {
	BidID              string    `db:"bid_id"`
	JobID              string    `db:"job_id"`
	Bidder             string    `db:"bidder"`
	EstimatedTime      string    `db:"estimated_completion_time"`
	ProposedCopper     int       `db:"proposed_price_copper"`
	InGameName         string    `db:"in_game_name"`
	CertificationLevel string    `db:"certification_level"`
	Note               string    `db:"note"`
	Accepted           bool      `db:"accepted"`
	DateBid            time.Time `db:"date_bid"`
}

// ServiceRequest is a direct request from a customer to a store owner,
// bypassing the open-bid flow. Once JobID is set the request is converted
// and further state changes funnel through the job it produced.
type ServiceRequest struct {
	RequestID       string         `db:"request_id"`
	Customer        string         `db:"customer"`
	StoreOwner      string         `db:"store_owner"`
	Description     string         `db:"description"`
	TotalCopper     int            `db:"total_copper"`
	Timeline        string         `db:"timeline"`
	Status          string         `db:"status"`
	FeedbackMessage sql.NullString `db:"feedback_message"`
	JobID           sql.NullString `db:"job_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Notification is an addressed, timestamped, typed in-app message.
// Append-only; only IsRead is ever mutated, and only by the recipient.
// RelayedAt is stamped by the relay worker once the created event has
// been processed.
type Notification struct {
	NotificationID string         `db:"notification_id"`
	Recipient      string         `db:"recipient"`
	Content        string         `db:"content"`
	Type           string         `db:"type"`
	Link           sql.NullString `db:"link"`
	IsRead         bool           `db:"is_read"`
	Timestamp      time.Time      `db:"timestamp"`
	RelayedAt      sql.NullTime   `db:"relayed_at"`
}
