package api

import (
	"net/http"
	"strconv"
)

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	window := 0
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 && d <= 365 {
		window = d
	}

	summary, err := s.StatsService.Summary(r.Context(), window)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, summary)
}
