package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSessionReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.ReportService.SessionReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rep)
}
