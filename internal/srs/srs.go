// Package srs implements the 7-tier spaced-repetition scheduling algorithm.
package srs

import (
	"time"

	"github.com/artem/quizbot/internal/models"
)

// Outcome is the result of one judged turn, fed into the level transition.
type Outcome int

const (
	Correct Outcome = iota
	Wrong
	Again
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Again:
		return "again"
	default:
		return "unknown"
	}
}

const (
	// MaxLevel is the top scheduling tier.
	MaxLevel = 6
	// MasteredLevel is the tier at or above which a card counts as mastered.
	MasteredLevel = 4
)

// intervals holds the review delay in days, indexed by post-update level.
// Level 0 means due immediately.
var intervals = [MaxLevel + 1]int{0, 1, 3, 7, 14, 30, 60}

// IntervalDays returns the review delay for a level. Levels outside [0,6]
// are clamped.
func IntervalDays(level int) int {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return intervals[level]
}

// Apply advances a card's progress for one outcome. Counters only ever grow;
// the level moves one step up on correct, one step down on wrong, and resets
// to zero on again. The next review is scheduled from now by the post-update
// level's interval.
func Apply(p models.CardProgress, outcome Outcome, now time.Time) models.CardProgress {
	switch outcome {
	case Correct:
		p.CorrectCount++
		if p.Level < MaxLevel {
			p.Level++
		}
	case Wrong:
		p.WrongCount++
		if p.Level > 0 {
			p.Level--
		}
	case Again:
		p.WrongCount++
		p.Level = 0
	}
	p.NextReview = now.AddDate(0, 0, intervals[p.Level])
	return p
}

// Mastered reports whether a level counts as mastered.
func Mastered(level int) bool {
	return level >= MasteredLevel
}
