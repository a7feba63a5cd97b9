package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/messages", s.handlePostMessage)
		r.Post("/sessions/{id}/finish", s.handleFinishSession)
		r.Get("/sessions/{id}/quiz", s.handleSessionQuiz)
		r.Get("/sessions/{id}/report", s.handleSessionReport)

		r.Post("/quiz/{id}/answer", s.handleAnswerQuiz)

		r.Get("/flashcards/due", s.handleDueFlashcards)
		r.Post("/flashcards/{id}/review", s.handleReviewFlashcard)

		r.Get("/stats/summary", s.handleStatsSummary)
	})

	return r
}
