package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

func (db *DB) InsertMessage(ctx context.Context, m models.Message) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting message: session_id=%s, role=%s", m.SessionID, m.Role)

	_, err := db.ExecContext(ctx, `
INSERT INTO messages (id, session_id, role, text, ts)
VALUES (?, ?, ?, ?, ?)
`, m.ID, m.SessionID, m.Role, m.Text, m.Ts)
	if err != nil {
		log.Error("failed to insert message: %v", err)
	}
	return err
}

func (db *DB) ListSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("listing messages: session_id=%s", sessionID)

	rows, err := db.QueryContext(ctx, `
SELECT id, session_id, role, text, ts
FROM messages
WHERE session_id = ?
ORDER BY ts ASC, id ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list messages: %v", err)
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Text, &m.Ts); err != nil {
			log.Error("failed to scan message row: %v", err)
			return nil, err
		}
		messages = append(messages, m)
	}
	log.Debug("found %d messages", len(messages))
	return messages, rows.Err()
}

// InsertErrorSpans stores a batch of spans in one transaction so a
// message's detections land atomically.
func (db *DB) InsertErrorSpans(ctx context.Context, spans []models.ErrorSpan, createdAt time.Time) error {
	if len(spans) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting %d error spans", len(spans))

	return tx(ctx, db, func(t *sql.Tx) error {
		for _, span := range spans {
			_, err := t.ExecContext(ctx, `
INSERT INTO error_spans (id, message_id, start_offset, end_offset, category, user_text, corrected_text, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, span.ID, span.MessageID, span.Start, span.End, span.Category, span.UserText, span.CorrectedText, span.Note, createdAt)
			if err != nil {
				log.Error("failed to insert error span: %v", err)
				return err
			}
		}
		return nil
	})
}

func (db *DB) ListSessionErrors(ctx context.Context, sessionID string) ([]models.ErrorSpan, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("listing error spans: session_id=%s", sessionID)

	rows, err := db.QueryContext(ctx, `
SELECT e.id, e.message_id, e.start_offset, e.end_offset, e.category, e.user_text, e.corrected_text, e.note
FROM error_spans e
JOIN messages m ON m.id = e.message_id
WHERE m.session_id = ?
ORDER BY m.ts ASC, e.start_offset ASC, e.id ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list error spans: %v", err)
		return nil, err
	}
	defer rows.Close()

	var spans []models.ErrorSpan
	for rows.Next() {
		var e models.ErrorSpan
		if err := rows.Scan(&e.ID, &e.MessageID, &e.Start, &e.End, &e.Category, &e.UserText, &e.CorrectedText, &e.Note); err != nil {
			log.Error("failed to scan error span row: %v", err)
			return nil, err
		}
		spans = append(spans, e)
	}
	log.Debug("found %d error spans", len(spans))
	return spans, rows.Err()
}
