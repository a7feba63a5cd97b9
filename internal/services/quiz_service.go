package services

import (
	"context"
	"strings"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

// QuizView is a quiz item as shown to the learner: the canonical answer
// and rationale stay server-side until the item is answered.
type QuizView struct {
	ID      string          `json:"id"`
	Type    models.QuizType `json:"type"`
	Prompt  string          `json:"prompt"`
	Choices []string        `json:"choices"`
}

// AnswerResult reveals correctness and the canonical answer after a
// submission.
type AnswerResult struct {
	Attempt   models.QuizAttempt `json:"attempt"`
	Answer    string             `json:"answer"`
	Rationale string             `json:"rationale"`
}

// QuizService exposes generated quiz items and records attempts.
type QuizService interface {
	SessionQuiz(ctx context.Context, sessionID string) ([]QuizView, error)
	SubmitAnswer(ctx context.Context, itemID, selected string, latencyMs int) (*AnswerResult, error)
}

type quizService struct {
	db    *db.DB
	clock clock.Clock
}

// NewQuizService creates a new QuizService.
func NewQuizService(database *db.DB, clk clock.Clock) QuizService {
	return &quizService{db: database, clock: clk}
}

func (s *quizService) SessionQuiz(ctx context.Context, sessionID string) ([]QuizView, error) {
	session, err := s.db.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	items, err := s.db.ListSessionQuizItems(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	views := make([]QuizView, 0, len(items))
	for _, item := range items {
		views = append(views, QuizView{
			ID:      item.ID,
			Type:    item.Type,
			Prompt:  item.Prompt,
			Choices: item.Choices,
		})
	}
	return views, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, itemID, selected string, latencyMs int) (*AnswerResult, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(selected) == "" {
		return nil, errors.NewValidationError("selected", "must not be empty")
	}
	if latencyMs < 0 {
		return nil, errors.NewValidationError("latency_ms", "must not be negative")
	}

	item, err := s.db.GetQuizItem(ctx, itemID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("quiz item", itemID)
	}

	correct := strings.EqualFold(strings.TrimSpace(selected), item.Answer)
	attempt := models.QuizAttempt{
		ID:         models.NewID(),
		QuizItemID: itemID,
		Selected:   selected,
		IsCorrect:  correct,
		LatencyMs:  latencyMs,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.db.InsertQuizAttempt(ctx, attempt); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Debug("quiz attempt recorded: item=%s, correct=%t", itemID, correct)
	return &AnswerResult{
		Attempt:   attempt,
		Answer:    item.Answer,
		Rationale: item.Rationale,
	}, nil
}
