package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Get("/{id}", s.handleGetDeck)
			r.Put("/{id}", s.handleUpdateDeck)
			r.Delete("/{id}", s.handleDeleteDeck)
			r.Get("/{id}/cards", s.handleListCards)
			r.Post("/{id}/cards", s.handleAddCard)
			r.Get("/{id}/stats", s.handleDeckStats)
			r.Get("/{id}/export", s.handleExport)
			r.Post("/{id}/import", s.handleImport)
			r.Post("/{id}/generate", s.handleGenerateCards)
		})
		r.Delete("/cards/{id}", s.handleDeleteCard)

		r.Route("/study", func(r chi.Router) {
			r.Post("/sessions", s.handleStartSession)
			r.Get("/sessions/current", s.handleCurrentTurn)
			r.Post("/sessions/{id}/turn", s.handleTurn)
			r.Delete("/sessions/{id}", s.handleStopSession)
		})

		r.Get("/stats", s.handleUserStats)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
