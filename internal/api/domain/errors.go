package domain

import "errors"

// Business-rule rejections. None of these are transient: every failure in
// this package is deterministic and must not be retried.
var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the actor lacks the required
	// relationship to the entity (poster, bidder or store owner).
	ErrUnauthorized = errors.New("not authorized")

	// ErrInvalidState is returned when an operation is not valid for the
	// entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrAlreadyAccepted is returned when a bid has already been accepted
	// for the job.
	ErrAlreadyAccepted = errors.New("a bid has already been accepted for this job")

	// ErrDuplicateBid is returned when the bidder already has a bid on the job.
	ErrDuplicateBid = errors.New("bidder already has a bid on this job")

	// ErrCannotModifyAccepted is returned when editing or deleting an
	// accepted bid is attempted.
	ErrCannotModifyAccepted = errors.New("cannot modify an accepted bid")

	// ErrRecipientNotFound is returned by the notification emitter when the
	// recipient user does not exist. Callers passing validated user
	// references should never see it; it is logged as a defensive condition.
	ErrRecipientNotFound = errors.New("notification recipient not found")

	// ErrNoAcceptedBid signals that a delivered job has no accepted bid, so
	// the bidder-side delivery effects were skipped.
	ErrNoAcceptedBid = errors.New("job has no accepted bid")
)
