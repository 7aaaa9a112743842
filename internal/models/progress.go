package models

import "time"

// CardProgress is the durable scheduling state for one (user, card) pair.
type CardProgress struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CardID       int64     `json:"card_id"`
	Level        int       `json:"level"`
	NextReview   time.Time `json:"next_review"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
}

// DueCard pairs a card with its current scheduling level, for ordering.
type DueCard struct {
	Card
	Level int `json:"level"`
}

// DeckStats partitions a deck's cards by scheduling tier.
type DeckStats struct {
	Mastered int `json:"mastered"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Total    int `json:"total"`
	Progress int `json:"progress"`
}

// StudyRecord is one durable study-history row per (user, deck).
type StudyRecord struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	DeckID         int64      `json:"deck_id"`
	CardsStudied   int        `json:"cards_studied"`
	CorrectAnswers int        `json:"correct_answers"`
	TotalAttempts  int        `json:"total_attempts"`
	LastStudied    *time.Time `json:"last_studied"`
}

// UserStats aggregates study history across all of a user's decks.
type UserStats struct {
	DecksCount    int        `json:"decks_count"`
	TotalStudied  int        `json:"total_studied"`
	TotalCorrect  int        `json:"total_correct"`
	TotalAttempts int        `json:"total_attempts"`
	Accuracy      float64    `json:"accuracy"`
	LastStudied   *time.Time `json:"last_studied"`
}
