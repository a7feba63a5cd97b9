package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type answerQuizRequest struct {
	Selected  string `json:"selected" validate:"required,min=1"`
	LatencyMs int    `json:"latency_ms" validate:"gte=0"`
}

func (s *Server) handleSessionQuiz(w http.ResponseWriter, r *http.Request) {
	items, err := s.QuizService.SessionQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerQuizRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuizService.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.Selected, req.LatencyMs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, result)
}
