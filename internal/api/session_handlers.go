package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/models"
)

type startSessionRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=120"`
}

type postMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.StartSession(r.Context(), req.Topic)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.SessionService.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	filter := db.SessionFilter{
		Topic: r.URL.Query().Get("topic"),
		Limit: 50,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = models.SessionStatus(status)
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		filter.Limit = l
	}
	log.Debug("listing sessions: status=%s, topic=%s, limit=%d", filter.Status, filter.Topic, filter.Limit)

	sessions, err := s.SessionService.ListSessions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	exchange, err := s.SessionService.PostMessage(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, exchange)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.SessionService.FinishSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, result)
}
