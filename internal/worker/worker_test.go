package worker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildworks/marketboard/internal/worker/domain"
)

func TestAlreadyHandled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "already relayed is acknowledged",
			err:  domain.ErrAlreadyRelayed,
			want: true,
		},
		{
			name: "wrapped already relayed is acknowledged",
			err:  fmt.Errorf("relay: %w", domain.ErrAlreadyRelayed),
			want: true,
		},
		{
			name: "notification not found is a failure",
			err:  domain.ErrNotificationNotFound,
			want: false,
		},
		{
			name: "invalid event is a failure",
			err:  domain.ErrInvalidEvent,
			want: false,
		},
		{
			name: "retryable error is a failure",
			err:  domain.NewRetryableError(errors.New("connection reset")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alreadyHandled(tt.err))
		})
	}
}

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "notification not found is terminal",
			err:  domain.ErrNotificationNotFound,
			want: false,
		},
		{
			name: "invalid event is terminal",
			err:  domain.ErrInvalidEvent,
			want: false,
		},
		{
			name: "wrapped invalid event is terminal",
			err:  domain.NewRetryableError(domain.ErrInvalidEvent),
			want: false,
		},
		{
			name: "retryable error goes back on the queue",
			err:  domain.NewRetryableError(errors.New("connection reset")),
			want: true,
		},
		{
			name: "unclassified error is dropped",
			err:  errors.New("something unexpected"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRequeue(tt.err))
		})
	}
}

func TestParseEvent(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid event",
			body: `{"notification_id":"` + id + `","recipient":"user-1","type":"job_status"}`,
		},
		{
			name:    "malformed json",
			body:    `{"notification_id":`,
			wantErr: true,
		},
		{
			name:    "notification id not a uuid",
			body:    `{"notification_id":"not-a-uuid","recipient":"user-1","type":"job_status"}`,
			wantErr: true,
		},
		{
			name:    "missing notification id",
			body:    `{"recipient":"user-1","type":"job_status"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseEvent([]byte(tt.body))

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidEvent)
				assert.Nil(t, msg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, msg)
				assert.Equal(t, id, msg.NotificationID)
				assert.Equal(t, "user-1", msg.Recipient)
				assert.Equal(t, "job_status", msg.Type)
			}
		})
	}
}
