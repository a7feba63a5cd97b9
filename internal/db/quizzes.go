package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

// InsertQuizItems stores a generated quiz batch atomically. Choices are
// JSON-encoded here, at the persistence edge only.
func (db *DB) InsertQuizItems(ctx context.Context, items []models.QuizItem) error {
	if len(items) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting %d quiz items", len(items))

	return tx(ctx, db, func(t *sql.Tx) error {
		for _, item := range items {
			choices, err := json.Marshal(item.Choices)
			if err != nil {
				return err
			}
			var sourceErrorID sql.NullString
			if item.SourceErrorID != "" {
				sourceErrorID = sql.NullString{String: item.SourceErrorID, Valid: true}
			}
			_, err = t.ExecContext(ctx, `
INSERT INTO quiz_items (id, session_id, type, prompt, choices, answer, rationale, source_error_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, item.ID, item.SessionID, item.Type, item.Prompt, string(choices), item.Answer, item.Rationale, sourceErrorID, item.CreatedAt)
			if err != nil {
				log.Error("failed to insert quiz item: %v", err)
				return err
			}
		}
		return nil
	})
}

func scanQuizItem(scan func(dest ...any) error) (models.QuizItem, error) {
	var (
		item          models.QuizItem
		choices       string
		sourceErrorID sql.NullString
	)
	err := scan(&item.ID, &item.SessionID, &item.Type, &item.Prompt, &choices, &item.Answer, &item.Rationale, &sourceErrorID, &item.CreatedAt)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal([]byte(choices), &item.Choices); err != nil {
		return item, err
	}
	item.SourceErrorID = sourceErrorID.String
	return item, nil
}

func (db *DB) GetQuizItem(ctx context.Context, id string) (*models.QuizItem, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("getting quiz item: id=%s", id)

	row := db.QueryRowContext(ctx, `
SELECT id, session_id, type, prompt, choices, answer, rationale, source_error_id, created_at
FROM quiz_items
WHERE id = ?
`, id)
	item, err := scanQuizItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz item not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz item: %v", err)
		return nil, err
	}
	return &item, nil
}

func (db *DB) ListSessionQuizItems(ctx context.Context, sessionID string) ([]models.QuizItem, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("listing quiz items: session_id=%s", sessionID)

	rows, err := db.QueryContext(ctx, `
SELECT id, session_id, type, prompt, choices, answer, rationale, source_error_id, created_at
FROM quiz_items
WHERE session_id = ?
ORDER BY created_at ASC, rowid ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list quiz items: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []models.QuizItem
	for rows.Next() {
		item, err := scanQuizItem(rows.Scan)
		if err != nil {
			log.Error("failed to scan quiz item row: %v", err)
			return nil, err
		}
		items = append(items, item)
	}
	log.Debug("found %d quiz items", len(items))
	return items, rows.Err()
}

func (db *DB) CountSessionQuizItems(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_items WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

func (db *DB) InsertQuizAttempt(ctx context.Context, a models.QuizAttempt) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting quiz attempt: quiz_item_id=%s, correct=%t", a.QuizItemID, a.IsCorrect)

	_, err := db.ExecContext(ctx, `
INSERT INTO quiz_attempts (id, quiz_item_id, selected, is_correct, latency_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, a.ID, a.QuizItemID, a.Selected, a.IsCorrect, a.LatencyMs, a.CreatedAt)
	if err != nil {
		log.Error("failed to insert quiz attempt: %v", err)
	}
	return err
}

// ListSessionAttempts returns every attempt against the session's quiz
// in submission order, so callers can apply last-write-wins per item.
func (db *DB) ListSessionAttempts(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("listing quiz attempts: session_id=%s", sessionID)

	rows, err := db.QueryContext(ctx, `
SELECT a.id, a.quiz_item_id, a.selected, a.is_correct, a.latency_ms, a.created_at
FROM quiz_attempts a
JOIN quiz_items q ON q.id = a.quiz_item_id
WHERE q.session_id = ?
ORDER BY a.created_at ASC, a.rowid ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list quiz attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.QuizItemID, &a.Selected, &a.IsCorrect, &a.LatencyMs, &a.CreatedAt); err != nil {
			log.Error("failed to scan quiz attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	log.Debug("found %d quiz attempts", len(attempts))
	return attempts, rows.Err()
}

// CountUnansweredQuizItems reports how many of the session's quiz items
// have no attempt yet.
func (db *DB) CountUnansweredQuizItems(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM quiz_items q
WHERE q.session_id = ?
AND NOT EXISTS (SELECT 1 FROM quiz_attempts a WHERE a.quiz_item_id = q.id)
`, sessionID).Scan(&n)
	return n, err
}
