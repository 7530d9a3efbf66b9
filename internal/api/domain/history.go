package domain

import (
	"encoding/json"
	"time"
)

// HistoryLimit bounds the per-profile completed-jobs ledger.
const HistoryLimit = 10

// HistoryEntry is one completed-job record in a profile's recent history.
type HistoryEntry struct {
	ItemsRequested string `json:"items_requested"`
	DeliveredDate  string `json:"delivered_date"`
}

// ParseHistory decodes the JSON ledger stored on a profile. Malformed or
// empty input is treated as an empty ledger, never as a fatal error.
func ParseHistory(raw string) []HistoryEntry {
	if raw == "" {
		return nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

// AppendHistory appends a completed-job record to the encoded ledger and
// returns the re-encoded result, keeping only the most recent HistoryLimit
// entries (oldest dropped first).
func AppendHistory(raw, itemsRequested string, deliveredDate time.Time) string {
	entries := ParseHistory(raw)
	entries = append(entries, HistoryEntry{
		ItemsRequested: itemsRequested,
		DeliveredDate:  deliveredDate.Format("2006-01-02"),
	})
	if len(entries) > HistoryLimit {
		entries = entries[len(entries)-HistoryLimit:]
	}
	out, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(out)
}
