package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

// reportDetails is the JSON-encoded tail of a report row.
type reportDetails struct {
	Strengths    []string               `json:"strengths"`
	Improvements []string               `json:"improvements"`
	Examples     []models.ReportExample `json:"examples"`
}

// InsertReportIfAbsent persists a report snapshot unless the session
// already has one. The PRIMARY KEY on session_id plus INSERT OR IGNORE
// makes report creation at-most-once even under concurrent callers.
// Returns true when the snapshot was written.
func (db *DB) InsertReportIfAbsent(ctx context.Context, r models.Report) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting report if absent: session_id=%s", r.SessionID)

	details, err := json.Marshal(reportDetails{
		Strengths:    r.Strengths,
		Improvements: r.Improvements,
		Examples:     r.Examples,
	})
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO reports (session_id, words, errors, accuracy_pct, cefr, quiz_total, quiz_correct, quiz_accuracy_pct, summary, details, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, r.SessionID, r.Words, r.Errors, r.AccuracyPct, r.CEFREstimate,
		r.QuizSummary.Total, r.QuizSummary.Correct, r.QuizSummary.AccuracyPct,
		r.Summary, string(details), r.CreatedAt)
	if err != nil {
		log.Error("failed to insert report: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	inserted := n > 0
	log.Debug("report insert: written=%t", inserted)
	return inserted, nil
}

func (db *DB) GetReport(ctx context.Context, sessionID string) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("getting report: session_id=%s", sessionID)

	var (
		r       models.Report
		details string
	)
	err := db.QueryRowContext(ctx, `
SELECT session_id, words, errors, accuracy_pct, cefr, quiz_total, quiz_correct, quiz_accuracy_pct, summary, details, created_at
FROM reports
WHERE session_id = ?
`, sessionID).Scan(&r.SessionID, &r.Words, &r.Errors, &r.AccuracyPct, &r.CEFREstimate,
		&r.QuizSummary.Total, &r.QuizSummary.Correct, &r.QuizSummary.AccuracyPct,
		&r.Summary, &details, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("report not found: session_id=%s", sessionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get report: %v", err)
		return nil, err
	}

	var d reportDetails
	if err := json.Unmarshal([]byte(details), &d); err != nil {
		log.Error("failed to decode report details: %v", err)
		return nil, err
	}
	r.Strengths = d.Strengths
	r.Improvements = d.Improvements
	r.Examples = d.Examples
	return &r, nil
}
