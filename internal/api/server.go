// Package api exposes the deck, study and stats operations over a JSON
// HTTP API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/artem/quizbot/internal/ai"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/worker"
)

type Server struct {
	Decks    *services.DeckService
	Study    *services.StudyService
	Stats    *services.StatsService
	Users    repository.UserRepository
	AI       *ai.Client
	Imports  *worker.Pool
}

func NewServer(
	decks *services.DeckService,
	study *services.StudyService,
	stats *services.StatsService,
	users repository.UserRepository,
	aiClient *ai.Client,
	imports *worker.Pool,
) *Server {
	return &Server{
		Decks:   decks,
		Study:   study,
		Stats:   stats,
		Users:   users,
		AI:      aiClient,
		Imports: imports,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
