package model

import (
	"fmt"
	"time"
)

// Entry is one change-log row: the durable record of every mutation
// attempt, immediate or deferred.
//
// Lifecycle: created once per mutation attempt. applied entries are
// terminal and immutable. pending entries transition exactly once to
// approved or rejected, at which point ReviewedBy/ReviewedAt are set and
// the entry becomes terminal. The log is never rewritten except for this
// one status transition.
type Entry struct {
	LogID       int64      `json:"log_id"`
	Timestamp   time.Time  `json:"timestamp"`
	EntityType  EntityType `json:"entity_type"`
	Action      Action     `json:"action"`
	EntityKey   string     `json:"entity_key"`
	Payload     Payload    `json:"payload"`
	Notes       string     `json:"notes"`
	RequestedBy string     `json:"requested_by"`
	Status      Status     `json:"status"`
	ReviewedBy  string     `json:"reviewed_by"`
	ReviewedAt  time.Time  `json:"reviewed_at"` // zero until reviewed
}

// NextLogID returns the next log id for a change log: the high-water mark
// plus one, or 1 for an empty log.
func NextLogID(log []Entry) int64 {
	var max int64
	for _, e := range log {
		if e.LogID > max {
			max = e.LogID
		}
	}
	return max + 1
}

// LogHighWater returns the largest log id present, or 0 for an empty log.
func LogHighWater(log []Entry) int64 {
	return NextLogID(log) - 1
}

// FormatTime renders a timestamp for durable storage. Zero times render
// as the empty string (reviewed_at before review).
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a stored timestamp. The empty string parses to the
// zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
