package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/artem/quizbot/internal/errors"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid id in path")
	}
	return id, nil
}

type deckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.Decks.ListDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.GetDeck(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	deck, err := s.Decks.GetDeck(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck.Name = req.Name
	deck.Description = req.Description
	if err := s.Decks.UpdateDeck(r.Context(), user.ID, deck); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Decks.DeleteDeck(r.Context(), user.ID, id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cardRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Decks.ListCards(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	card, err := s.Decks.AddCard(r.Context(), user.ID, id, req.Question, req.Answer, req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Decks.DeleteCard(r.Context(), user.ID, id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
