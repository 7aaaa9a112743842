package api

import (
	"encoding/json"
	"net/http"

	"github.com/artem/quizbot/internal/errors"
)

type settingsRequest struct {
	Notifications   *bool   `json:"notifications,omitempty"`
	CardsPerSession *int    `json:"cards_per_session,omitempty"`
	ReminderTime    *string `json:"reminder_time,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	settings, err := s.Users.Settings(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleUpdateSettings merges the provided fields over the user's current
// settings, so a partial body only changes what it names.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	settings, err := s.Users.Settings(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}
	if req.CardsPerSession != nil {
		if *req.CardsPerSession < 1 || *req.CardsPerSession > 100 {
			handleError(w, r, errors.NewValidationError("cards_per_session", "must be between 1 and 100"))
			return
		}
		settings.CardsPerSession = *req.CardsPerSession
	}
	if req.ReminderTime != nil {
		settings.ReminderTime = *req.ReminderTime
	}
	settings.UserID = user.ID

	if err := s.Users.SaveSettings(r.Context(), settings); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
