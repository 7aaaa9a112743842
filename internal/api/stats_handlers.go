package api

import (
	"net/http"
)

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	overview, err := s.Stats.UserOverview(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	overview, err := s.Stats.DeckOverview(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
