package domain

import "errors"

var (
	// ErrNotificationNotFound is returned when the event references a row
	// that does not exist
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrAlreadyRelayed is returned when another worker has already claimed
	// and relayed the notification
	ErrAlreadyRelayed = errors.New("notification already relayed")

	// ErrInvalidEvent is returned when the event payload is malformed
	ErrInvalidEvent = errors.New("invalid event payload")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
