package models

import "time"

// Flashcard carries the SM-2 scheduling state alongside its content.
// SourceErrorID links back to the error span the card was created from;
// a unique constraint guarantees at most one card per span.
type Flashcard struct {
	ID            string    `json:"id"`
	Front         string    `json:"front"`
	Back          string    `json:"back"`
	SourceErrorID string    `json:"source_error_id,omitempty"`
	Repetitions   int       `json:"repetitions"`
	IntervalDays  int       `json:"interval_days"`
	Ease          float64   `json:"ease"`
	DueAt         time.Time `json:"due_at"`
	CreatedAt     time.Time `json:"created_at"`
}
