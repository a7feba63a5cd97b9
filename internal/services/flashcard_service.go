package services

import (
	"context"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/srs"
)

// FlashcardService serves the due-card queue and applies spaced
// repetition reviews.
type FlashcardService interface {
	DueCards(ctx context.Context, limit int) ([]models.Flashcard, error)
	Review(ctx context.Context, cardID string, quality int) (*models.Flashcard, error)
}

type flashcardService struct {
	db           *db.DB
	clock        clock.Clock
	defaultLimit int
}

// NewFlashcardService creates a new FlashcardService. defaultLimit caps
// the due queue when the caller passes no limit of its own.
func NewFlashcardService(database *db.DB, clk clock.Clock, defaultLimit int) FlashcardService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &flashcardService{db: database, clock: clk, defaultLimit: defaultLimit}
}

func (s *flashcardService) DueCards(ctx context.Context, limit int) ([]models.Flashcard, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	cards, err := s.db.DueFlashcards(ctx, s.clock.Now(), limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *flashcardService) Review(ctx context.Context, cardID string, quality int) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	card, err := s.db.GetFlashcard(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", cardID)
	}

	next := srs.Review(srs.StateOf(*card), quality, s.clock.Now())
	if err := s.db.UpdateFlashcardState(ctx, cardID, next.Repetitions, next.IntervalDays, next.Ease, next.DueAt); err != nil {
		return nil, errors.NewInternalError(err)
	}

	card.Repetitions = next.Repetitions
	card.IntervalDays = next.IntervalDays
	card.Ease = next.Ease
	card.DueAt = next.DueAt

	if err := s.db.BumpStat(ctx, models.StatFlashcards, s.clock.Now()); err != nil {
		log.Warn("failed to bump flashcard stat: %v", err)
	}

	log.Debug("flashcard reviewed: id=%s, reps=%d, interval=%d, due=%s",
		cardID, next.Repetitions, next.IntervalDays, next.DueAt.Format("2006-01-02"))
	return card, nil
}
