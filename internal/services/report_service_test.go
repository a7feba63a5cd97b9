package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/quizgen"
	"github.com/smarquez/linguaflash/internal/services"
	"github.com/smarquez/linguaflash/internal/testutil"
)

type ReportServiceSuite struct {
	suite.Suite
	db       *db.DB
	sessions services.SessionService
	quizzes  services.QuizService
	reports  services.ReportService
	now      time.Time
}

func (s *ReportServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clk := clock.Fixed(s.now)
	s.sessions = services.NewSessionService(s.db, quizgen.New(quizgen.DefaultConfig()), clk)
	s.quizzes = services.NewQuizService(s.db, clk)
	s.reports = services.NewReportService(s.db, clk)
}

// finishedSession runs a session through chat, finish, and a full quiz
// pass where every item is answered correctly.
func (s *ReportServiceSuite) finishedSession() string {
	ctx := context.Background()
	session, err := s.sessions.StartSession(ctx, "cooking")
	s.Require().NoError(err)
	_, err = s.sessions.PostMessage(ctx, session.ID, "i am agree with you")
	s.Require().NoError(err)
	_, err = s.sessions.FinishSession(ctx, session.ID)
	s.Require().NoError(err)

	items, err := s.db.ListSessionQuizItems(ctx, session.ID)
	s.Require().NoError(err)
	for _, item := range items {
		_, err := s.quizzes.SubmitAnswer(ctx, item.ID, item.Answer, 1200)
		s.Require().NoError(err)
	}
	return session.ID
}

func (s *ReportServiceSuite) TestReportRequiresFinishedSession() {
	ctx := context.Background()
	session, err := s.sessions.StartSession(ctx, "cooking")
	s.Require().NoError(err)

	_, err = s.reports.SessionReport(ctx, session.ID)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeConflict, appErr.Code)
}

func (s *ReportServiceSuite) TestReportRequiresCompletedQuiz() {
	ctx := context.Background()
	session, err := s.sessions.StartSession(ctx, "cooking")
	s.Require().NoError(err)
	_, err = s.sessions.PostMessage(ctx, session.ID, "i am agree with you")
	s.Require().NoError(err)
	_, err = s.sessions.FinishSession(ctx, session.ID)
	s.Require().NoError(err)

	_, err = s.reports.SessionReport(ctx, session.ID)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeConflict, appErr.Code)
}

func (s *ReportServiceSuite) TestReportMissingSessionIsNotFound() {
	_, err := s.reports.SessionReport(context.Background(), "nope")
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *ReportServiceSuite) TestReportContents() {
	ctx := context.Background()
	sessionID := s.finishedSession()

	rep, err := s.reports.SessionReport(ctx, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(sessionID, rep.SessionID)
	s.Assert().Equal(5, rep.Words)
	s.Assert().Equal(1, rep.Errors)
	s.Assert().InDelta(80.0, rep.AccuracyPct, 1e-9)
	s.Assert().Equal(models.CEFRB2, rep.CEFREstimate)
	s.Assert().Equal(4, rep.QuizSummary.Total)
	s.Assert().Equal(4, rep.QuizSummary.Correct)
	s.Assert().Contains(rep.Summary, "cooking")
	s.Assert().Contains(rep.Summary, "B2")
	s.Require().NotEmpty(rep.Examples)
	s.Assert().Equal("i am agree", rep.Examples[0].Source)
}

func (s *ReportServiceSuite) TestReportIsBuiltOnce() {
	ctx := context.Background()
	sessionID := s.finishedSession()

	first, err := s.reports.SessionReport(ctx, sessionID)
	s.Require().NoError(err)

	// A repeat attempt on one item changes the quiz outcome, but the
	// stored report must not move.
	items, err := s.db.ListSessionQuizItems(ctx, sessionID)
	s.Require().NoError(err)
	_, err = s.quizzes.SubmitAnswer(ctx, items[0].ID, "definitely wrong", 500)
	s.Require().NoError(err)

	second, err := s.reports.SessionReport(ctx, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(first.Summary, second.Summary)
	s.Assert().Equal(first.QuizSummary, second.QuizSummary)
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}
