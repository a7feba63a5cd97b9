package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/testutil"
)

type ReportsSuite struct {
	suite.Suite
	db      *db.DB
	session models.Session
	now     time.Time
}

func (s *ReportsSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.session = models.Session{
		ID:        models.NewID(),
		Topic:     "travel",
		Status:    models.SessionFinished,
		StartedAt: s.now,
	}
	s.Require().NoError(s.db.InsertSession(context.Background(), s.session))
}

func (s *ReportsSuite) report(summary string) models.Report {
	return models.Report{
		SessionID:    s.session.ID,
		Summary:      summary,
		Words:        42,
		Errors:       2,
		AccuracyPct:  95.24,
		CEFREstimate: models.CEFRC1,
		QuizSummary:  models.QuizSummary{Total: 3, Correct: 2, AccuracyPct: 66.67},
		Strengths:    []string{"High lexical accuracy across the session."},
		Improvements: []string{"Revisit grammar patterns shown in corrections."},
		Examples: []models.ReportExample{
			{Source: "i am agree", Target: "I agree", Note: "Use 'agree' without the auxiliary verb."},
		},
		CreatedAt: s.now,
	}
}

func (s *ReportsSuite) TestInsertAndGetRoundTrip() {
	ctx := context.Background()
	r := s.report("first summary")

	written, err := s.db.InsertReportIfAbsent(ctx, r)
	s.Require().NoError(err)
	s.Assert().True(written)

	got, err := s.db.GetReport(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("first summary", got.Summary)
	s.Assert().Equal(42, got.Words)
	s.Assert().Equal(models.CEFRC1, got.CEFREstimate)
	s.Assert().Equal(r.QuizSummary, got.QuizSummary)
	s.Assert().Equal(r.Strengths, got.Strengths)
	s.Assert().Equal(r.Improvements, got.Improvements)
	s.Assert().Equal(r.Examples, got.Examples)
}

func (s *ReportsSuite) TestSecondInsertIsIgnored() {
	ctx := context.Background()

	written, err := s.db.InsertReportIfAbsent(ctx, s.report("first summary"))
	s.Require().NoError(err)
	s.Assert().True(written)

	written, err = s.db.InsertReportIfAbsent(ctx, s.report("second summary"))
	s.Require().NoError(err)
	s.Assert().False(written)

	got, err := s.db.GetReport(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("first summary", got.Summary)
}

func (s *ReportsSuite) TestGetMissingReturnsNil() {
	got, err := s.db.GetReport(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestReportsSuite(t *testing.T) {
	suite.Run(t, new(ReportsSuite))
}
