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

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func (db *DB) InsertSession(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting session: id=%s, topic=%s", s.ID, s.Topic)

	_, err := db.ExecContext(ctx, `
INSERT INTO sessions (id, topic, status, started_at)
VALUES (?, ?, ?, ?)
`, s.ID, s.Topic, s.Status, s.StartedAt)
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (db *DB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("getting session: id=%s", id)

	var s models.Session
	err := db.QueryRowContext(ctx, `
SELECT id, topic, status, started_at, ended_at
FROM sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.Topic, &s.Status, &s.StartedAt, &s.EndedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	Status models.SessionStatus
	Topic  string
	Limit  int
}

func (db *DB) ListSessions(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("listing sessions: status=%s, topic=%s", filter.Status, filter.Topic)

	query := sqlBuilder.
		Select("id", "topic", "status", "started_at", "ended_at").
		From("sessions").
		OrderBy("started_at DESC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Topic != "" {
		query = query.Where(squirrel.Eq{"topic": filter.Topic})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session query: %v", err)
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Topic, &s.Status, &s.StartedAt, &s.EndedAt); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (db *DB) MarkSessionFinished(ctx context.Context, id string, endedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("marking session finished: id=%s", id)

	_, err := db.ExecContext(ctx, `
UPDATE sessions SET status = ?, ended_at = ? WHERE id = ?
`, models.SessionFinished, endedAt, id)
	if err != nil {
		log.Error("failed to mark session finished: %v", err)
	}
	return err
}

// DeleteStaleSessions removes active sessions that started before the
// cutoff. Messages, error spans and quiz items cascade with them.
func (db *DB) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("deleting stale sessions started before %s", cutoff.Format(time.RFC3339))

	res, err := db.ExecContext(ctx, `
DELETE FROM sessions WHERE status = ? AND started_at < ?
`, models.SessionActive, cutoff)
	if err != nil {
		log.Error("failed to delete stale sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("deleted %d stale sessions", n)
	}
	return n, nil
}
