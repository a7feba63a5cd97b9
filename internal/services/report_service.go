package services

import (
	"context"
	"fmt"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/report"
)

// ReportService builds and serves the per-session progress report.
// A report is written exactly once per session; later requests return
// the stored copy unchanged.
type ReportService interface {
	SessionReport(ctx context.Context, sessionID string) (*models.Report, error)
}

type reportService struct {
	db    *db.DB
	clock clock.Clock
}

// NewReportService creates a new ReportService.
func NewReportService(database *db.DB, clk clock.Clock) ReportService {
	return &reportService{db: database, clock: clk}
}

func (s *reportService) SessionReport(ctx context.Context, sessionID string) (*models.Report, error) {
	log := logger.FromContext(ctx)

	existing, err := s.db.GetReport(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	session, err := s.db.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	if session.Status != models.SessionFinished {
		return nil, errors.NewConflictError("session must be finished before a report is available")
	}

	unanswered, err := s.db.CountUnansweredQuizItems(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if unanswered > 0 {
		return nil, errors.NewConflictError("quiz must be completed before a report is available")
	}

	messages, err := s.db.ListSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	errSpans, err := s.db.ListSessionErrors(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	attempts, err := s.db.ListSessionAttempts(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	built := report.Build(session.Topic, messages, errSpans, attempts)
	built.SessionID = sessionID
	built.CreatedAt = s.clock.Now()

	written, err := s.db.InsertReportIfAbsent(ctx, built)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if written {
		log.Info("report built: session=%s, accuracy=%.2f, cefr=%s",
			sessionID, built.AccuracyPct, built.CEFREstimate)
	}

	// Re-read so a concurrent builder that won the insert race still
	// yields one canonical report.
	stored, err := s.db.GetReport(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stored == nil {
		return nil, errors.NewInternalError(fmt.Errorf("report missing after insert: session_id=%s", sessionID))
	}
	return stored, nil
}
