package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/smarquez/linguaflash/internal/logger"
)

type reviewFlashcardRequest struct {
	Quality int `json:"quality" validate:"gte=0,lte=5"`
}

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	cards, err := s.FlashcardService.DueCards(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req reviewFlashcardRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	cardID := chi.URLParam(r, "id")
	log.Debug("reviewing flashcard: id=%s, quality=%d", cardID, req.Quality)

	card, err := s.FlashcardService.Review(r.Context(), cardID, req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, card)
}
