package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/errors"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/services"
)

// Server bundles the HTTP handlers with the services they dispatch to.
type Server struct {
	DB               *db.DB
	SessionService   services.SessionService
	QuizService      services.QuizService
	ReportService    services.ReportService
	FlashcardService services.FlashcardService
	StatsService     services.StatsService

	validate *validator.Validate
}

// NewServer creates a new Server with request payload validation wired in.
func NewServer(
	database *db.DB,
	sessions services.SessionService,
	quizzes services.QuizService,
	reports services.ReportService,
	flashcards services.FlashcardService,
	stats services.StatsService,
) *Server {
	return &Server{
		DB:               database,
		SessionService:   sessions,
		QuizService:      quizzes,
		ReportService:    reports,
		FlashcardService: flashcards,
		StatsService:     stats,
		validate:         validator.New(),
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON decodes the request body into dst and runs struct
// validation on it. dst must be a pointer to a struct.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("malformed JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return errors.NewValidationError(verrs[0].Field(), "failed on '"+verrs[0].Tag()+"' rule")
		}
		return errors.NewBadRequestError("invalid request body")
	}
	return nil
}
