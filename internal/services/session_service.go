package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/detect"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/quizgen"
)

// ChatExchange is the outcome of posting one user message.
type ChatExchange struct {
	UserMessage models.Message    `json:"user_message"`
	Reply       models.Message    `json:"reply"`
	Errors      []models.ErrorSpan `json:"errors"`
}

// FinishResult reports what a session finish produced. Finishing an
// already-finished session is a no-op with zero counts.
type FinishResult struct {
	QuizzesCreated    int  `json:"quizzes_created"`
	FlashcardsCreated int  `json:"flashcards_created"`
	AlreadyFinished   bool `json:"already_finished"`
}

// SessionService drives practice sessions: chat, error detection, and
// the finish pipeline that turns accumulated errors into study material.
type SessionService interface {
	StartSession(ctx context.Context, topic string) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListSessions(ctx context.Context, filter db.SessionFilter) ([]models.Session, error)
	PostMessage(ctx context.Context, sessionID, text string) (*ChatExchange, error)
	FinishSession(ctx context.Context, sessionID string) (*FinishResult, error)
}

type sessionService struct {
	db    *db.DB
	gen   *quizgen.Generator
	clock clock.Clock
}

// NewSessionService creates a new SessionService.
func NewSessionService(database *db.DB, gen *quizgen.Generator, clk clock.Clock) SessionService {
	return &sessionService{db: database, gen: gen, clock: clk}
}

func (s *sessionService) StartSession(ctx context.Context, topic string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.NewValidationError("topic", "must not be empty")
	}

	session := models.Session{
		ID:        models.NewID(),
		Topic:     topic,
		Status:    models.SessionActive,
		StartedAt: s.clock.Now(),
	}
	if err := s.db.InsertSession(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("session started: id=%s, topic=%s", session.ID, session.Topic)
	return &session, nil
}

func (s *sessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, filter db.SessionFilter) ([]models.Session, error) {
	sessions, err := s.db.ListSessions(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *sessionService) PostMessage(ctx context.Context, sessionID, text string) (*ChatExchange, error) {
	log := logger.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("text", "must not be empty")
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, errors.NewConflictError("session is already finished")
	}

	now := s.clock.Now()
	userMsg := models.Message{
		ID:        models.NewID(),
		SessionID: sessionID,
		Role:      models.RoleUser,
		Text:      text,
		Ts:        now,
	}
	if err := s.db.InsertMessage(ctx, userMsg); err != nil {
		return nil, errors.NewInternalError(err)
	}

	spans := make([]models.ErrorSpan, 0, 4)
	for _, found := range detect.Errors(text) {
		spans = append(spans, models.ErrorSpan{
			ID:            models.NewID(),
			MessageID:     userMsg.ID,
			Start:         found.Start,
			End:           found.End,
			Category:      found.Category,
			UserText:      found.UserText,
			CorrectedText: found.CorrectedText,
			Note:          found.Note,
		})
	}
	if err := s.db.InsertErrorSpans(ctx, spans, now); err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Debug("detected %d errors in message", len(spans))

	reply := models.Message{
		ID:        models.NewID(),
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Text:      tutorReply(text),
		Ts:        now,
	}
	if err := s.db.InsertMessage(ctx, reply); err != nil {
		return nil, errors.NewInternalError(err)
	}

	if err := s.db.BumpStat(ctx, models.StatChats, now); err != nil {
		// Stats are best-effort; the exchange itself succeeded.
		log.Warn("failed to bump chat stat: %v", err)
	}

	return &ChatExchange{UserMessage: userMsg, Reply: reply, Errors: spans}, nil
}

func (s *sessionService) FinishSession(ctx context.Context, sessionID string) (*FinishResult, error) {
	log := logger.FromContext(ctx)

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionFinished {
		log.Debug("session already finished: id=%s", sessionID)
		return &FinishResult{AlreadyFinished: true}, nil
	}

	messages, err := s.db.ListSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	errSpans, err := s.db.ListSessionErrors(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.clock.Now()
	items := s.gen.Generate(session.Topic, errSpans, messages)
	for i := range items {
		items[i].ID = models.NewID()
		items[i].SessionID = sessionID
		items[i].CreatedAt = now
	}
	if err := s.db.InsertQuizItems(ctx, items); err != nil {
		return nil, errors.NewInternalError(err)
	}

	flashcardsCreated := 0
	for _, span := range errSpans {
		created, err := s.db.EnsureFlashcard(ctx, models.Flashcard{
			ID:            models.NewID(),
			Front:         span.UserText,
			Back:          span.CorrectedText,
			SourceErrorID: span.ID,
			Repetitions:   0,
			IntervalDays:  0,
			Ease:          2.5,
			DueAt:         now,
			CreatedAt:     now,
		})
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if created {
			flashcardsCreated++
		}
	}

	if err := s.db.MarkSessionFinished(ctx, sessionID, now); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := s.db.BumpStat(ctx, models.StatQuizzes, now); err != nil {
		log.Warn("failed to bump quiz stat: %v", err)
	}

	log.Info("session finished: id=%s, quizzes=%d, flashcards=%d", sessionID, len(items), flashcardsCreated)
	return &FinishResult{
		QuizzesCreated:    len(items),
		FlashcardsCreated: flashcardsCreated,
	}, nil
}

// tutorReply is the deterministic offline tutor used in place of a real
// LLM backend.
func tutorReply(lastUser string) string {
	if lastUser == "" {
		return "Let's start practicing!"
	}
	return "I noticed you said: \"" + lastUser + "\". Here's a clearer version: " + capitalize(strings.TrimSpace(lastUser)) + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
