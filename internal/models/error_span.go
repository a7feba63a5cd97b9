package models

// ErrorCategory classifies a detected error in learner text.
type ErrorCategory string

const (
	CategoryGrammar ErrorCategory = "grammar"
	CategoryVocab   ErrorCategory = "vocab"
	CategoryFluency ErrorCategory = "fluency"
)

// ErrorSpan is one detected error located inside a user message.
// Spans are immutable once stored; they are only removed when the
// owning session is deleted.
type ErrorSpan struct {
	ID            string        `json:"id"`
	MessageID     string        `json:"message_id"`
	Start         int           `json:"start"`
	End           int           `json:"end"`
	Category      ErrorCategory `json:"category"`
	UserText      string        `json:"user_text"`
	CorrectedText string        `json:"corrected_text"`
	Note          string        `json:"note"`
}
