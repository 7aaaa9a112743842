package study

import "github.com/artem/quizbot/internal/srs"

// Mode identifies how a study session presents its cards.
type Mode string

const (
	ModeFlashcard Mode = "flashcard"
	ModeWrite     Mode = "write"
	ModeQuiz      Mode = "quiz"
	ModeMixed     Mode = "mixed"
)

// Valid reports whether m is a known study mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFlashcard, ModeWrite, ModeQuiz, ModeMixed:
		return true
	}
	return false
}

// Rating is the self-assessed quality of a flashcard turn.
type Rating string

const (
	RateAgain Rating = "again"
	RateHard  Rating = "hard"
	RateGood  Rating = "good"
	RateEasy  Rating = "easy"
)

// Outcome maps a rating to its scheduler outcome. ok is false for an
// unknown rating.
func (r Rating) Outcome() (outcome srs.Outcome, ok bool) {
	switch r {
	case RateAgain:
		return srs.Again, true
	case RateHard:
		return srs.Wrong, true
	case RateGood, RateEasy:
		return srs.Correct, true
	}
	return srs.Correct, false
}
