package study

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/srs"
)

// Write-mode similarity thresholds. At or above High the answer counts as
// correct; between Low and High it is an ambiguous "almost"; below Low it
// is wrong.
const (
	WriteHighThreshold = 0.85
	WriteLowThreshold  = 0.5
)

// Verdict classifies one write-mode evaluation.
type Verdict string

const (
	VerdictCorrect  Verdict = "correct"
	VerdictAlmost   Verdict = "almost"
	VerdictWrong    Verdict = "wrong"
	VerdictPractice Verdict = "practice" // retry after the turn was already judged
)

// sessionCard is one card in the working set with its per-session state.
type sessionCard struct {
	card    models.Card
	mode    Mode     // leaf mode for this card
	options []string // quiz choices, generated on first presentation
	judged  bool
}

// Session is the in-memory state of one user's study run. It is not safe
// for concurrent use; the Store serializes access per user.
type Session struct {
	ID        string
	UserID    int64
	DeckID    int64
	Mode      Mode
	StartedAt time.Time

	cards   []sessionCard
	index   int
	correct int
	wrong   int
	flipped bool
}

// Turn is what the transport presents for the current card.
type Turn struct {
	Index   int // 0-based cursor
	Total   int
	Mode    Mode // leaf mode of this card
	Card    models.Card
	Flipped bool
	Options []string // quiz only
}

// TurnResult is the pending effect of one user input. Nothing is committed
// until Apply, so a failed durable write leaves the session replayable.
type TurnResult struct {
	Mode          Mode
	Outcome       srs.Outcome
	HasOutcome    bool // a scheduler update must be persisted
	Counted       bool // contributes to the correct/wrong session counters
	Correct       bool
	Advance       bool
	Similarity    float64 // write mode
	Verdict       Verdict // write mode
	CorrectAnswer string  // revealed on a wrong quiz pick or judged-wrong write
	Hint          string  // offered on a judged-wrong write
	CardID        int64
}

// Summary is the final report of one session.
type Summary struct {
	Correct  int  `json:"correct"`
	Wrong    int  `json:"wrong"`
	Total    int  `json:"total"`
	Accuracy int  `json:"accuracy"`
	Perfect  bool `json:"perfect"`
}

// NewSession builds a session over an already-prepared working set. For
// mixed mode each card independently draws one of the leaf modes; quiz is
// excluded from the draw when the set is too small to build a distractor.
func NewSession(userID, deckID int64, mode Mode, cards []models.Card) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		DeckID:    deckID,
		Mode:      mode,
		StartedAt: time.Now(),
		cards:     make([]sessionCard, len(cards)),
	}

	leafModes := []Mode{ModeFlashcard, ModeWrite, ModeQuiz}
	if len(cards) < 2 {
		leafModes = leafModes[:2]
	}

	for i, c := range cards {
		leaf := mode
		if mode == ModeMixed {
			leaf = leafModes[rand.Intn(len(leafModes))]
		}
		s.cards[i] = sessionCard{card: c, mode: leaf}
	}
	return s
}

// Finished reports whether the cursor has passed the last card.
func (s *Session) Finished() bool {
	return s.index >= len(s.cards)
}

// Size returns the number of cards in the working set.
func (s *Session) Size() int {
	return len(s.cards)
}

// Counts returns the session counters for judged turns so far.
func (s *Session) Counts() (correct, wrong int) {
	return s.correct, s.wrong
}

// Turn returns the current presentation state. ok is false once the
// session is finished.
func (s *Session) Turn() (Turn, bool) {
	if s.Finished() {
		return Turn{}, false
	}

	cur := &s.cards[s.index]
	if cur.mode == ModeQuiz && cur.options == nil {
		cur.options = QuizOptions(cur.card, s.pool(), 4)
	}

	return Turn{
		Index:   s.index,
		Total:   len(s.cards),
		Mode:    cur.mode,
		Card:    cur.card,
		Flipped: s.flipped,
		Options: cur.options,
	}, true
}

func (s *Session) pool() []models.Card {
	pool := make([]models.Card, len(s.cards))
	for i := range s.cards {
		pool[i] = s.cards[i].card
	}
	return pool
}

// Flip toggles the flashcard between question and answer side. It never
// judges or advances the turn.
func (s *Session) Flip() error {
	if _, err := s.current(ModeFlashcard); err != nil {
		return err
	}
	s.flipped = !s.flipped
	return nil
}

// EvaluateRating resolves a flashcard turn. The card must be showing its
// answer side.
func (s *Session) EvaluateRating(r Rating) (TurnResult, error) {
	cur, err := s.current(ModeFlashcard)
	if err != nil {
		return TurnResult{}, err
	}
	if !s.flipped {
		return TurnResult{}, errors.NewValidationError("rating", "card has not been flipped")
	}

	outcome, ok := r.Outcome()
	if !ok {
		return TurnResult{}, errors.NewValidationError("rating", "must be again, hard, good or easy")
	}

	return TurnResult{
		Mode:       ModeFlashcard,
		Outcome:    outcome,
		HasOutcome: true,
		Counted:    true,
		Correct:    outcome == srs.Correct,
		Advance:    true,
		CardID:     cur.card.ID,
	}, nil
}

// EvaluateAnswer scores a free-text write answer. A judged-wrong card stays
// current so the user may retry with a hint or skip; retries after judging
// are unscored practice.
func (s *Session) EvaluateAnswer(text string) (TurnResult, error) {
	cur, err := s.current(ModeWrite)
	if err != nil {
		return TurnResult{}, err
	}

	sim := Similarity(text, cur.card.Answer)
	res := TurnResult{
		Mode:       ModeWrite,
		Similarity: sim,
		CardID:     cur.card.ID,
	}

	switch {
	case sim >= WriteHighThreshold:
		if cur.judged {
			// The turn was already counted wrong; this is practice.
			res.Verdict = VerdictPractice
			res.Advance = true
			return res, nil
		}
		res.Verdict = VerdictCorrect
		res.Outcome = srs.Correct
		res.HasOutcome = true
		res.Counted = true
		res.Correct = true
		res.Advance = true
	case sim >= WriteLowThreshold:
		// Ambiguous: no scheduler update either way. The caller offers
		// retry or skip; skipping leaves the turn unjudged.
		res.Verdict = VerdictAlmost
	default:
		res.Verdict = VerdictWrong
		res.Hint = Hint(cur.card.Answer, 0.3)
		res.CorrectAnswer = cur.card.Answer
		if !cur.judged {
			res.Outcome = srs.Wrong
			res.HasOutcome = true
			res.Counted = true
		}
	}
	return res, nil
}

// EvaluateChoice resolves a quiz turn by option index. Any selection judges
// the turn and advances; a wrong pick reveals the correct answer.
func (s *Session) EvaluateChoice(option int) (TurnResult, error) {
	cur, err := s.current(ModeQuiz)
	if err != nil {
		return TurnResult{}, err
	}
	if cur.options == nil {
		cur.options = QuizOptions(cur.card, s.pool(), 4)
	}
	if option < 0 || option >= len(cur.options) {
		return TurnResult{}, errors.NewValidationError("option", "out of range")
	}

	correct := cur.options[option] == cur.card.Answer
	res := TurnResult{
		Mode:       ModeQuiz,
		HasOutcome: true,
		Counted:    true,
		Correct:    correct,
		Advance:    true,
		CardID:     cur.card.ID,
	}
	if correct {
		res.Outcome = srs.Correct
	} else {
		res.Outcome = srs.Wrong
		res.CorrectAnswer = cur.card.Answer
	}
	return res, nil
}

// EvaluateSkip moves past the current write card without judging it (after
// an "almost") or after it was already judged wrong.
func (s *Session) EvaluateSkip() (TurnResult, error) {
	cur, err := s.current(ModeWrite)
	if err != nil {
		return TurnResult{}, err
	}
	return TurnResult{
		Mode:    ModeWrite,
		Advance: true,
		CardID:  cur.card.ID,
	}, nil
}

// Apply commits an evaluated result to the session: counters, the judged
// flag, and the cursor. Callers persist the scheduler update first so a
// storage failure leaves the session unchanged.
func (s *Session) Apply(res TurnResult) {
	if s.Finished() {
		return
	}

	if res.Counted {
		if res.Correct {
			s.correct++
		} else {
			s.wrong++
		}
		s.cards[s.index].judged = true
	}
	if res.Advance {
		s.index++
		s.flipped = false
	}
}

// Summarize computes the final session report. Accuracy is the rounded
// percentage of judged turns answered correctly, zero when nothing was
// judged.
func (s *Session) Summarize() Summary {
	total := s.correct + s.wrong
	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(float64(s.correct) / float64(total) * 100))
	}
	return Summary{
		Correct:  s.correct,
		Wrong:    s.wrong,
		Total:    total,
		Accuracy: accuracy,
		Perfect:  accuracy == 100 && total >= 3,
	}
}

func (s *Session) current(want Mode) (*sessionCard, error) {
	if s.Finished() {
		return nil, errors.NewValidationError("session", "already finished")
	}
	cur := &s.cards[s.index]
	if cur.mode != want {
		return nil, errors.NewValidationError("input", "does not match the current card's mode")
	}
	return cur, nil
}
