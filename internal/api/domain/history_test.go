package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []HistoryEntry
	}{
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name: "empty ledger",
			raw:  "[]",
			want: []HistoryEntry{},
		},
		{
			name: "single entry",
			raw:  `[{"items_requested":"10x Iron Ore","delivered_date":"2026-08-01"}]`,
			want: []HistoryEntry{{ItemsRequested: "10x Iron Ore", DeliveredDate: "2026-08-01"}},
		},
		{
			name: "malformed json treated as empty",
			raw:  `{"not":"a list"`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHistory(tt.raw))
		})
	}
}

func TestAppendHistory(t *testing.T) {
	delivered := time.Date(2026, 8, 15, 13, 45, 0, 0, time.UTC)

	raw := AppendHistory("[]", "10x Iron Ore", delivered)
	entries := ParseHistory(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "10x Iron Ore", entries[0].ItemsRequested)
	assert.Equal(t, "2026-08-15", entries[0].DeliveredDate)

	raw = AppendHistory(raw, "5x Oak Timber", delivered.AddDate(0, 0, 1))
	entries = ParseHistory(raw)
	require.Len(t, entries, 2)
	assert.Equal(t, "10x Iron Ore", entries[0].ItemsRequested)
	assert.Equal(t, "5x Oak Timber", entries[1].ItemsRequested)
}

func TestAppendHistory_StartsFromMalformed(t *testing.T) {
	raw := AppendHistory("not json", "10x Iron Ore", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	entries := ParseHistory(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "10x Iron Ore", entries[0].ItemsRequested)
}

func TestAppendHistory_BoundedAtLimit(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	raw := "[]"
	for i := 0; i < HistoryLimit+5; i++ {
		raw = AppendHistory(raw, fmt.Sprintf("job-%d", i), day.AddDate(0, 0, i))
	}

	entries := ParseHistory(raw)
	require.Len(t, entries, HistoryLimit)

	// Oldest entries are dropped, newest kept in order.
	assert.Equal(t, "job-5", entries[0].ItemsRequested)
	assert.Equal(t, fmt.Sprintf("job-%d", HistoryLimit+4), entries[len(entries)-1].ItemsRequested)
}
