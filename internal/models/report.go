package models

import "time"

// CEFRLevel is a coarse proficiency estimate derived from accuracy.
type CEFRLevel string

const (
	CEFRA2 CEFRLevel = "A2"
	CEFRB1 CEFRLevel = "B1"
	CEFRB2 CEFRLevel = "B2"
	CEFRC1 CEFRLevel = "C1"
)

type ReportExample struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Note   string `json:"note"`
}

type QuizSummary struct {
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// Report is the end-of-session snapshot. It is computed at most once per
// session and persisted immutably.
type Report struct {
	SessionID    string          `json:"session_id"`
	Summary      string          `json:"summary"`
	Words        int             `json:"words"`
	Errors       int             `json:"errors"`
	AccuracyPct  float64         `json:"accuracy_pct"`
	CEFREstimate CEFRLevel       `json:"cefr_estimate"`
	QuizSummary  QuizSummary     `json:"quiz_summary"`
	Strengths    []string        `json:"strengths"`
	Improvements []string        `json:"improvements"`
	Examples     []ReportExample `json:"examples"`
	CreatedAt    time.Time       `json:"created_at"`
}
