// Package domain holds the marketplace business rules: lifecycle state
// machines, currency normalization, the profile history ledger, and the
// error taxonomy shared by the service and handler layers.
//
// Job status graph (strictly forward, no skips):
//
//	posted ──► accepted ──► completed ──► delivered
//
// Service request status graph:
//
//	pending ──► accepted
//	    │  └──► denied
//	    └─────► feedback ──► completed
package domain

import "fmt"

// JobStatus values mirror the status column on the jobs table.
type JobStatus string

const (
	JobStatusPosted    JobStatus = "posted"
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusCompleted JobStatus = "completed"
	JobStatusDelivered JobStatus = "delivered"
)

// jobStatusOrder assigns each status its position on the forward-only path.
var jobStatusOrder = map[JobStatus]int{
	JobStatusPosted:    0,
	JobStatusAccepted:  1,
	JobStatusCompleted: 2,
	JobStatusDelivered: 3,
}

// ParseJobStatus converts a raw string to a JobStatus, returning an error
// for unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	if _, ok := jobStatusOrder[st]; !ok {
		return "", fmt.Errorf("unknown job status %q", s)
	}
	return st, nil
}

// CanTransition reports whether a job may move from → to. Only single
// forward steps are permitted: no cycles, no skips.
func (s JobStatus) CanTransition(to JobStatus) bool {
	from, ok := jobStatusOrder[s]
	if !ok {
		return false
	}
	next, ok := jobStatusOrder[to]
	if !ok {
		return false
	}
	return next == from+1
}

// Terminal reports whether the status has no outgoing transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDelivered
}

// RequestStatus values mirror the status column on the service_requests table.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDenied    RequestStatus = "denied"
	RequestStatusFeedback  RequestStatus = "feedback"
	RequestStatusCompleted RequestStatus = "completed"
)

// ParseRequestStatus converts a raw string to a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	switch st {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDenied,
		RequestStatusFeedback, RequestStatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown service request status %q", s)
}
