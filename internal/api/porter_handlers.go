package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/porter"
	"github.com/artem/quizbot/internal/worker"
)

// maxImportBytes caps an uploaded import file.
const maxImportBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	format := porter.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = porter.FormatCSV
	}

	cards, err := s.Decks.ListCards(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	switch format {
	case porter.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		err = porter.ExportCSV(w, cards)
	case porter.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		err = porter.ExportJSON(w, cards)
	case porter.FormatText:
		w.Header().Set("Content-Type", "text/plain")
		err = porter.ExportText(w, cards)
	case porter.FormatExcel:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = porter.ExportExcel(w, cards)
	default:
		handleError(w, r, errors.NewBadRequestError("format must be csv, json, text or xlsx"))
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("export deck %d: %v", id, err)
	}
}

// handleImport accepts a raw file body plus a format query parameter and
// queues the parse and insert on the worker pool, so a large upload never
// ties up the handler.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	format := porter.Format(r.URL.Query().Get("format"))
	switch format {
	case porter.FormatCSV, porter.FormatJSON, porter.FormatText, porter.FormatExcel:
	default:
		handleError(w, r, errors.NewBadRequestError("format must be csv, json, text or xlsx"))
		return
	}

	// Ownership check up front, before accepting the payload.
	if _, err := s.Decks.GetDeck(r.Context(), user.ID, id); err != nil {
		handleError(w, r, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read upload"))
		return
	}
	if len(body) > maxImportBytes {
		handleError(w, r, errors.NewBadRequestError("import file is too large"))
		return
	}

	userID := user.ID
	job := worker.JobFunc{
		JobName: fmt.Sprintf("import-deck-%d", id),
		Fn: func(ctx context.Context) error {
			res, err := porter.Parse(format, bytes.NewReader(body))
			if err != nil {
				return err
			}
			inserted, err := s.Decks.AddCards(ctx, userID, id, res.Cards)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("imported %d cards into deck %d (%d rows skipped)", inserted, id, res.Skipped)
			return nil
		},
	}
	if err := s.Imports.Submit(job); err != nil {
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued"})
}

type generateRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// handleGenerateCards asks the AI assistant for cards on a topic and
// inserts them into the deck.
func (s *Server) handleGenerateCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !s.AI.Enabled() {
		handleError(w, r, errors.NewBadRequestError("ai assistant is not configured"))
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Topic == "" {
		handleError(w, r, errors.NewValidationError("topic", "cannot be empty"))
		return
	}

	cards, err := s.AI.GenerateQuizCards(r.Context(), req.Topic, req.Count)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	inserted, err := s.Decks.AddCards(r.Context(), user.ID, id, cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"inserted": inserted})
}
