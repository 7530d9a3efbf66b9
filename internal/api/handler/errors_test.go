package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guildworks/marketboard/internal/api/domain"
	"github.com/guildworks/marketboard/internal/api/service"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"recipient not found", domain.ErrRecipientNotFound, http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"already accepted", domain.ErrAlreadyAccepted, http.StatusConflict},
		{"duplicate bid", domain.ErrDuplicateBid, http.StatusConflict},
		{"cannot modify accepted", domain.ErrCannotModifyAccepted, http.StatusConflict},
		{"username taken", service.ErrUsernameTaken, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("loading job: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
