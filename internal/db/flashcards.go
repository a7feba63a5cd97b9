package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

// EnsureFlashcard inserts a card unless one already exists for its
// source error. The UNIQUE constraint on source_error_id provides the
// at-most-once guarantee; INSERT OR IGNORE makes the call idempotent.
// Returns true when a new card was created.
func (db *DB) EnsureFlashcard(ctx context.Context, c models.Flashcard) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("ensuring flashcard: source_error_id=%s", c.SourceErrorID)

	var sourceErrorID sql.NullString
	if c.SourceErrorID != "" {
		sourceErrorID = sql.NullString{String: c.SourceErrorID, Valid: true}
	}
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO flashcards (id, front, back, source_error_id, repetitions, interval_days, ease, due_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.Front, c.Back, sourceErrorID, c.Repetitions, c.IntervalDays, c.Ease, c.DueAt, c.CreatedAt)
	if err != nil {
		log.Error("failed to ensure flashcard: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	created := n > 0
	log.Debug("flashcard ensure: created=%t", created)
	return created, nil
}

func (db *DB) GetFlashcard(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("getting flashcard: id=%s", id)

	var (
		c             models.Flashcard
		sourceErrorID sql.NullString
	)
	err := db.QueryRowContext(ctx, `
SELECT id, front, back, source_error_id, repetitions, interval_days, ease, due_at, created_at
FROM flashcards
WHERE id = ?
`, id).Scan(&c.ID, &c.Front, &c.Back, &sourceErrorID, &c.Repetitions, &c.IntervalDays, &c.Ease, &c.DueAt, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	c.SourceErrorID = sourceErrorID.String
	return &c, nil
}

// DueFlashcards lists cards due at or before now, soonest first.
func (db *DB) DueFlashcards(ctx context.Context, now time.Time, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("fetching due flashcards: limit=%d", limit)

	query := sqlBuilder.
		Select("id", "front", "back", "source_error_id", "repetitions", "interval_days", "ease", "due_at", "created_at").
		From("flashcards").
		Where(squirrel.LtOrEq{"due_at": now}).
		OrderBy("due_at ASC", "id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due flashcards query: %v", err)
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var (
			c             models.Flashcard
			sourceErrorID sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &sourceErrorID, &c.Repetitions, &c.IntervalDays, &c.Ease, &c.DueAt, &c.CreatedAt); err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		c.SourceErrorID = sourceErrorID.String
		cards = append(cards, c)
	}
	log.Debug("found %d due flashcards", len(cards))
	return cards, rows.Err()
}

// UpdateFlashcardState persists the scheduler's output for a card.
func (db *DB) UpdateFlashcardState(ctx context.Context, id string, repetitions, intervalDays int, ease float64, dueAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("updating flashcard state: id=%s, interval=%d, ease=%.2f", id, intervalDays, ease)

	_, err := db.ExecContext(ctx, `
UPDATE flashcards
SET repetitions = ?, interval_days = ?, ease = ?, due_at = ?
WHERE id = ?
`, repetitions, intervalDays, ease, dueAt, id)
	if err != nil {
		log.Error("failed to update flashcard state: %v", err)
	}
	return err
}

func (db *DB) CountFlashcards(ctx context.Context, dueBefore *time.Time) (int, error) {
	query := sqlBuilder.Select("COUNT(*)").From("flashcards")
	if dueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"due_at": *dueBefore})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, sqlStr, args...).Scan(&n)
	return n, err
}
