package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Window(t *testing.T) {
	tests := []struct {
		name         string
		in           Pagination
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "defaults when unset",
			in:           Pagination{},
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "values within range pass through",
			in:           Pagination{Page: 3, PageSize: 25},
			wantPage:     3,
			wantPageSize: 25,
		},
		{
			name:         "negative page clamps to first",
			in:           Pagination{Page: -2, PageSize: 10},
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "negative page size falls back to default",
			in:           Pagination{Page: 1, PageSize: -5},
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "oversized page size clamps to max",
			in:           Pagination{Page: 1, PageSize: 5000},
			wantPage:     1,
			wantPageSize: MaxPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := tt.in.Window()
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}
