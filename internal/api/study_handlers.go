package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/study"
)

type startSessionRequest struct {
	DeckID int64  `json:"deck_id"`
	Mode   string `json:"mode"`
	Limit  int    `json:"limit"`
}

// turnView is the wire shape of one presentation state. The answer is
// withheld until the card is flipped or the turn resolves.
type turnView struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Mode     string   `json:"mode"`
	CardID   int64    `json:"card_id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer,omitempty"`
	Flipped  bool     `json:"flipped"`
	Options  []string `json:"options,omitempty"`
}

func toTurnView(t study.Turn) turnView {
	v := turnView{
		Index:    t.Index,
		Total:    t.Total,
		Mode:     string(t.Mode),
		CardID:   t.Card.ID,
		Question: t.Card.Question,
		Flipped:  t.Flipped,
		Options:  t.Options,
	}
	if t.Flipped {
		v.Answer = t.Card.Answer
	}
	return v
}

type turnResponse struct {
	Verdict       string         `json:"verdict,omitempty"`
	Correct       bool           `json:"correct"`
	Similarity    float64        `json:"similarity,omitempty"`
	CorrectAnswer string         `json:"correct_answer,omitempty"`
	Hint          string         `json:"hint,omitempty"`
	Points        int            `json:"points,omitempty"`
	Next          *turnView      `json:"next,omitempty"`
	Summary       *study.Summary `json:"summary,omitempty"`
}

func toTurnResponse(report *services.TurnReport) turnResponse {
	resp := turnResponse{
		Verdict:       string(report.Result.Verdict),
		Correct:       report.Result.Counted && report.Result.Correct,
		Similarity:    report.Result.Similarity,
		CorrectAnswer: report.Result.CorrectAnswer,
		Hint:          report.Result.Hint,
		Points:        report.Points,
		Summary:       report.Summary,
	}
	if report.Next != nil {
		v := toTurnView(*report.Next)
		resp.Next = &v
	}
	return resp
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		if settings, err := s.Users.Settings(r.Context(), user.ID); err == nil {
			limit = settings.CardsPerSession
		}
	}

	sess, turn, err := s.Study.StartSession(r.Context(), user.ID, req.DeckID, study.Mode(req.Mode), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"mode":       string(sess.Mode),
		"turn":       toTurnView(turn),
	})
}

func (s *Server) handleCurrentTurn(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	turn, err := s.Study.CurrentTurn(user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTurnView(turn))
}

type turnRequest struct {
	Action string `json:"action"` // flip | rate | answer | choice | skip
	Rating string `json:"rating,omitempty"`
	Answer string `json:"answer,omitempty"`
	Choice int    `json:"choice"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.Study.CheckHandle(user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	var (
		report *services.TurnReport
		err    error
	)
	switch req.Action {
	case "flip":
		turn, ferr := s.Study.Flip(user.ID)
		if ferr != nil {
			handleError(w, r, ferr)
			return
		}
		v := toTurnView(turn)
		writeJSON(w, http.StatusOK, turnResponse{Next: &v})
		return
	case "rate":
		report, err = s.Study.SubmitRating(r.Context(), user.ID, study.Rating(req.Rating))
	case "answer":
		report, err = s.Study.SubmitAnswer(r.Context(), user.ID, req.Answer)
	case "choice":
		report, err = s.Study.SubmitChoice(r.Context(), user.ID, req.Choice)
	case "skip":
		report, err = s.Study.SkipCard(r.Context(), user.ID)
	default:
		handleError(w, r, errors.NewBadRequestError("action must be flip, rate, answer, choice or skip"))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTurnResponse(report))
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.Study.CheckHandle(user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.Study.StopSession(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}
