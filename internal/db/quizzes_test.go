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

type QuizzesSuite struct {
	suite.Suite
	db      *db.DB
	session models.Session
	now     time.Time
}

func (s *QuizzesSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.session = models.Session{
		ID:        models.NewID(),
		Topic:     "travel",
		Status:    models.SessionActive,
		StartedAt: s.now,
	}
	s.Require().NoError(s.db.InsertSession(context.Background(), s.session))
}

func (s *QuizzesSuite) item(prompt string, offset time.Duration) models.QuizItem {
	return models.QuizItem{
		ID:        models.NewID(),
		SessionID: s.session.ID,
		Type:      models.QuizMCQ,
		Prompt:    prompt,
		Choices:   []string{"a", "b", "I don't know"},
		Answer:    "a",
		Rationale: "because",
		CreatedAt: s.now.Add(offset),
	}
}

func (s *QuizzesSuite) TestInsertAndListPreservesOrderAndChoices() {
	ctx := context.Background()
	items := []models.QuizItem{
		s.item("first", 0),
		s.item("second", 0),
		s.item("third", time.Second),
	}
	s.Require().NoError(s.db.InsertQuizItems(ctx, items))

	got, err := s.db.ListSessionQuizItems(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Assert().Equal("first", got[0].Prompt)
	s.Assert().Equal("second", got[1].Prompt)
	s.Assert().Equal("third", got[2].Prompt)
	s.Assert().Equal([]string{"a", "b", "I don't know"}, got[0].Choices)
}

func (s *QuizzesSuite) TestGetItemRoundTripsSourceErrorID() {
	ctx := context.Background()

	msg := models.Message{ID: models.NewID(), SessionID: s.session.ID, Role: models.RoleUser, Text: "i am agree", Ts: s.now}
	s.Require().NoError(s.db.InsertMessage(ctx, msg))
	span := models.ErrorSpan{
		ID: models.NewID(), MessageID: msg.ID,
		Start: 0, End: 10, Category: models.CategoryGrammar,
		UserText: "i am agree", CorrectedText: "I agree",
	}
	s.Require().NoError(s.db.InsertErrorSpans(ctx, []models.ErrorSpan{span}, s.now))

	item := s.item("linked", 0)
	item.SourceErrorID = span.ID
	s.Require().NoError(s.db.InsertQuizItems(ctx, []models.QuizItem{item}))

	got, err := s.db.GetQuizItem(ctx, item.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(span.ID, got.SourceErrorID)
}

func (s *QuizzesSuite) TestGetMissingItemReturnsNil() {
	got, err := s.db.GetQuizItem(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *QuizzesSuite) TestAttemptsAndUnansweredCount() {
	ctx := context.Background()
	a := s.item("first", 0)
	b := s.item("second", 0)
	s.Require().NoError(s.db.InsertQuizItems(ctx, []models.QuizItem{a, b}))

	n, err := s.db.CountUnansweredQuizItems(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)

	s.Require().NoError(s.db.InsertQuizAttempt(ctx, models.QuizAttempt{
		ID: models.NewID(), QuizItemID: a.ID, Selected: "b", IsCorrect: false, CreatedAt: s.now,
	}))
	s.Require().NoError(s.db.InsertQuizAttempt(ctx, models.QuizAttempt{
		ID: models.NewID(), QuizItemID: a.ID, Selected: "a", IsCorrect: true, CreatedAt: s.now.Add(time.Second),
	}))

	n, err = s.db.CountUnansweredQuizItems(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Assert().Equal(1, n)

	attempts, err := s.db.ListSessionAttempts(ctx, s.session.ID)
	s.Require().NoError(err)
	s.Require().Len(attempts, 2)
	s.Assert().False(attempts[0].IsCorrect)
	s.Assert().True(attempts[1].IsCorrect)
}

func TestQuizzesSuite(t *testing.T) {
	suite.Run(t, new(QuizzesSuite))
}
