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
	"github.com/smarquez/linguaflash/internal/services"
	"github.com/smarquez/linguaflash/internal/testutil"
)

type FlashcardServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.FlashcardService
	now time.Time
}

func (s *FlashcardServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.svc = services.NewFlashcardService(s.db, clock.Fixed(s.now), 10)
}

func (s *FlashcardServiceSuite) newCard(due time.Time) models.Flashcard {
	card := models.Flashcard{
		ID:           models.NewID(),
		Front:        "i am agree",
		Back:         "I agree",
		Repetitions:  0,
		IntervalDays: 0,
		Ease:         2.5,
		DueAt:        due,
		CreatedAt:    s.now,
	}
	created, err := s.db.EnsureFlashcard(context.Background(), card)
	s.Require().NoError(err)
	s.Require().True(created)
	return card
}

func (s *FlashcardServiceSuite) TestDueCardsUsesDefaultLimit() {
	for i := 0; i < 12; i++ {
		s.newCard(s.now.Add(-time.Hour))
	}

	cards, err := s.svc.DueCards(context.Background(), 0)
	s.Require().NoError(err)
	s.Assert().Len(cards, 10)
}

func (s *FlashcardServiceSuite) TestSuccessfulReviewAdvancesSchedule() {
	ctx := context.Background()
	card := s.newCard(s.now)

	got, err := s.svc.Review(ctx, card.ID, 5)
	s.Require().NoError(err)
	s.Assert().Equal(1, got.Repetitions)
	s.Assert().Equal(1, got.IntervalDays)
	s.Assert().InDelta(2.6, got.Ease, 1e-9)
	s.Assert().True(got.DueAt.Equal(s.now.AddDate(0, 0, 1)))

	// The reviewed card left the due queue.
	due, err := s.svc.DueCards(ctx, 0)
	s.Require().NoError(err)
	s.Assert().Empty(due)

	// The flashcard counter moved.
	_, _, flashcards, err := s.db.SumStats(ctx, "2026-03-01", "2026-03-01")
	s.Require().NoError(err)
	s.Assert().Equal(1, flashcards)
}

func (s *FlashcardServiceSuite) TestLapseResetsProgress() {
	ctx := context.Background()
	card := s.newCard(s.now)
	s.Require().NoError(s.db.UpdateFlashcardState(ctx, card.ID, 3, 17, 2.8, s.now))

	got, err := s.svc.Review(ctx, card.ID, 1)
	s.Require().NoError(err)
	s.Assert().Equal(0, got.Repetitions)
	s.Assert().Equal(1, got.IntervalDays)
	// Ease still takes the penalty on a lapse.
	s.Assert().InDelta(2.26, got.Ease, 1e-9)
	s.Assert().True(got.DueAt.Equal(s.now.AddDate(0, 0, 1)))
}

func (s *FlashcardServiceSuite) TestReviewMissingCardIsNotFound() {
	_, err := s.svc.Review(context.Background(), "nope", 4)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func TestFlashcardServiceSuite(t *testing.T) {
	suite.Run(t, new(FlashcardServiceSuite))
}
