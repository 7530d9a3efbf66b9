package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from JobStatus
		to   JobStatus
		want bool
	}{
		{"posted to accepted", JobStatusPosted, JobStatusAccepted, true},
		{"accepted to completed", JobStatusAccepted, JobStatusCompleted, true},
		{"completed to delivered", JobStatusCompleted, JobStatusDelivered, true},
		{"posted cannot skip to completed", JobStatusPosted, JobStatusCompleted, false},
		{"posted cannot skip to delivered", JobStatusPosted, JobStatusDelivered, false},
		{"accepted cannot go back to posted", JobStatusAccepted, JobStatusPosted, false},
		{"delivered has no outgoing transitions", JobStatusDelivered, JobStatusPosted, false},
		{"no self transition", JobStatusAccepted, JobStatusAccepted, false},
		{"unknown source", JobStatus("cancelled"), JobStatusAccepted, false},
		{"unknown target", JobStatusPosted, JobStatus("cancelled"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobStatusPosted.Terminal())
	assert.False(t, JobStatusAccepted.Terminal())
	assert.False(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusDelivered.Terminal())
}

func TestParseJobStatus(t *testing.T) {
	for _, s := range []string{"posted", "accepted", "completed", "delivered"} {
		st, err := ParseJobStatus(s)
		require.NoError(t, err)
		assert.Equal(t, JobStatus(s), st)
	}

	_, err := ParseJobStatus("cancelled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job status")

	_, err = ParseJobStatus("")
	assert.Error(t, err)
}

func TestParseRequestStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "denied", "feedback", "completed"} {
		st, err := ParseRequestStatus(s)
		require.NoError(t, err)
		assert.Equal(t, RequestStatus(s), st)
	}

	_, err := ParseRequestStatus("rejected")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service request status")
}
