package models

import "time"

// JobPayload is the inbound shape of a report request. Every field is
// optional; normalization into a ResolvedJob happens before any business
// logic runs.
type JobPayload struct {
	DateFrom      *time.Time `json:"dateFrom,omitempty"`
	DateTo        *time.Time `json:"dateTo,omitempty"`
	FileName      string     `json:"fileName,omitempty"`
	RunAtUtc      *time.Time `json:"runAtUtc,omitempty"`
	CorrelationID string     `json:"correlationId,omitempty"`
}

// ResolvedJob is the all-required form a JobPayload is normalized into.
// Invariant: DateFrom < DateTo and FileName is non-empty.
type ResolvedJob struct {
	DateFrom time.Time
	DateTo   time.Time
	FileName string
}
