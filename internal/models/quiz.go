package models

import "time"

type QuizType string

const (
	QuizMCQ   QuizType = "mcq"
	QuizCloze QuizType = "cloze"
)

// QuizItem is one generated question tied to a session. Choices are kept
// as a typed slice; they are JSON-encoded only at the sqlite boundary.
// SourceErrorID is empty for topic- and context-derived items.
type QuizItem struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Type          QuizType  `json:"type"`
	Prompt        string    `json:"prompt"`
	Choices       []string  `json:"choices"`
	Answer        string    `json:"answer"`
	Rationale     string    `json:"rationale"`
	SourceErrorID string    `json:"source_error_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizAttempt records one submission against one quiz item. Several
// attempts may exist per item; only the latest counts toward the
// session's quiz summary.
type QuizAttempt struct {
	ID         string    `json:"id"`
	QuizItemID string    `json:"quiz_item_id"`
	Selected   string    `json:"selected"`
	IsCorrect  bool      `json:"is_correct"`
	LatencyMs  int       `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
