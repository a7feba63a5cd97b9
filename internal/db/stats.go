package db

import (
	"context"
	"fmt"
	"time"

	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

var statColumns = map[models.StatKind]string{
	models.StatChats:      "chats",
	models.StatQuizzes:    "quizzes",
	models.StatFlashcards: "flashcards",
}

// BumpStat increments today's counter for kind in a single atomic
// upsert. Concurrent bumps for the same day cannot lose updates because
// the increment happens inside the statement, not read-modify-write in
// the application.
func (db *DB) BumpStat(ctx context.Context, kind models.StatKind, day time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	column, ok := statColumns[kind]
	if !ok {
		return fmt.Errorf("unknown stat kind: %s", kind)
	}
	date := day.UTC().Format("2006-01-02")
	log.Debug("bumping stat: kind=%s, date=%s", kind, date)

	query := fmt.Sprintf(`
INSERT INTO stats_daily (date, %[1]s)
VALUES (?, 1)
ON CONFLICT(date) DO UPDATE SET %[1]s = %[1]s + 1
`, column)
	_, err := db.ExecContext(ctx, query, date)
	if err != nil {
		log.Error("failed to bump stat %s: %v", kind, err)
	}
	return err
}

// SumStats totals the daily counters for dates in [from, to], both
// inclusive YYYY-MM-DD strings. Missing days contribute zero.
func (db *DB) SumStats(ctx context.Context, from, to string) (chats, quizzes, flashcards int, err error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("summing stats: from=%s, to=%s", from, to)

	err = db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(chats), 0), COALESCE(SUM(quizzes), 0), COALESCE(SUM(flashcards), 0)
FROM stats_daily
WHERE date >= ? AND date <= ?
`, from, to).Scan(&chats, &quizzes, &flashcards)
	if err != nil {
		log.Error("failed to sum stats: %v", err)
	}
	return chats, quizzes, flashcards, err
}

// TopErrorTags returns the most frequent error categories among spans
// created at or after since. Ties break on the earliest-seen category,
// which keeps the ordering deterministic.
func (db *DB) TopErrorTags(ctx context.Context, since time.Time, limit int) ([]models.ErrorTagCount, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("fetching top error tags since %s", since.Format(time.RFC3339))

	rows, err := db.QueryContext(ctx, `
SELECT category, COUNT(*) AS cnt
FROM error_spans
WHERE created_at >= ?
GROUP BY category
ORDER BY cnt DESC, MIN(rowid) ASC
LIMIT ?
`, since, limit)
	if err != nil {
		log.Error("failed to query top error tags: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tags []models.ErrorTagCount
	for rows.Next() {
		var t models.ErrorTagCount
		if err := rows.Scan(&t.Category, &t.Count); err != nil {
			log.Error("failed to scan error tag row: %v", err)
			return nil, err
		}
		tags = append(tags, t)
	}
	log.Debug("found %d error tags", len(tags))
	return tags, rows.Err()
}
