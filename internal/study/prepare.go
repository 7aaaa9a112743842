// Package study selects and scores cards for a session and drives the
// per-turn session state machine.
package study

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/artem/quizbot/internal/models"
)

// DefaultSessionLimit caps how many cards one session works through.
const DefaultSessionLimit = 20

// HintMask is the character used to hide unrevealed answer runes.
const HintMask = '*'

// PrepareCards selects and orders a working set for one session. Write and
// quiz modes weakly prioritize harder cards before the shuffle; the stable
// sort keeps insertion order among equal difficulties. An empty deck yields
// an empty set, which callers must treat as "nothing to study".
func PrepareCards(cards []models.Card, mode Mode, limit int) []models.Card {
	if len(cards) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSessionLimit
	}

	selected := make([]models.Card, len(cards))
	copy(selected, cards)

	if mode == ModeWrite || mode == ModeQuiz {
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Difficulty > selected[j].Difficulty
		})
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// QuizOptions builds the answer choices for a quiz turn: the card's own
// answer exactly once plus up to numOptions-1 distinct wrong answers drawn
// without replacement from the rest of the pool. A pool too small to fill
// all slots yields fewer options, never an error.
func QuizOptions(card models.Card, pool []models.Card, numOptions int) []string {
	if numOptions < 1 {
		numOptions = 1
	}

	seen := map[string]bool{card.Answer: true}
	var wrong []string
	for _, other := range pool {
		if other.ID == card.ID || seen[other.Answer] {
			continue
		}
		seen[other.Answer] = true
		wrong = append(wrong, other.Answer)
	}

	rand.Shuffle(len(wrong), func(i, j int) {
		wrong[i], wrong[j] = wrong[j], wrong[i]
	})
	if len(wrong) > numOptions-1 {
		wrong = wrong[:numOptions-1]
	}

	options := append(wrong, card.Answer)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Hint reveals the leading ceil(len*revealPercent) runes of the answer
// (at least one) and masks the rest. The hint always has the same rune
// length as the answer.
func Hint(answer string, revealPercent float64) string {
	runes := []rune(answer)
	if len(runes) == 0 {
		return ""
	}

	reveal := int(math.Ceil(float64(len(runes)) * revealPercent))
	if reveal < 1 {
		reveal = 1
	}
	if reveal > len(runes) {
		reveal = len(runes)
	}

	var sb strings.Builder
	sb.WriteString(string(runes[:reveal]))
	for i := reveal; i < len(runes); i++ {
		sb.WriteRune(HintMask)
	}
	return sb.String()
}
