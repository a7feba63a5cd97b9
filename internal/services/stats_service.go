package services

import (
	"context"
	"time"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/models"
)

// StatsService aggregates daily activity counters into a trailing-window
// summary.
type StatsService interface {
	Summary(ctx context.Context, windowDays int) (*models.StatsSummary, error)
}

type statsService struct {
	db         *db.DB
	clock      clock.Clock
	windowDays int
	topTags    int
}

// NewStatsService creates a new StatsService. windowDays and topTags are
// the defaults used when a request does not override the window.
func NewStatsService(database *db.DB, clk clock.Clock, windowDays, topTags int) StatsService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if topTags <= 0 {
		topTags = 3
	}
	return &statsService{db: database, clock: clk, windowDays: windowDays, topTags: topTags}
}

func (s *statsService) Summary(ctx context.Context, windowDays int) (*models.StatsSummary, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	now := s.clock.Now().UTC()
	// The window is inclusive of today, so a 7-day window spans today
	// and the six days before it.
	since := now.AddDate(0, 0, -(windowDays - 1))
	from := since.Format("2006-01-02")
	to := now.Format("2006-01-02")

	chats, quizzes, flashcards, err := s.db.SumStats(ctx, from, to)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	due := now
	dueCount, err := s.db.CountFlashcards(ctx, &due)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	total, err := s.db.CountFlashcards(ctx, nil)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	sinceMidnight := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	tags, err := s.db.TopErrorTags(ctx, sinceMidnight, s.topTags)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return &models.StatsSummary{
		WindowDays:     windowDays,
		Chats:          chats,
		Quizzes:        quizzes,
		Flashcards:     flashcards,
		FlashcardsDue:  dueCount,
		TotalFlashcards: total,
		TopErrorTags:   tags,
	}, nil
}
