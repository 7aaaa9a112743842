// Package testutil provides helpers shared by database-backed tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/db"
	"github.com/artem/quizbot/internal/models"
)

// NewTestDB opens a fresh in-memory database with all migrations
// applied. The handle is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { conn.Close() })
	return conn
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t *testing.T, conn *sql.DB, id int64, username string) int64 {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO users (id, username) VALUES (?, ?)`, id, username)
	require.NoError(t, err, "insert user")
	return id
}

// CreateDeck inserts a deck row and returns its id.
func CreateDeck(t *testing.T, conn *sql.DB, userID int64, name string) int64 {
	t.Helper()

	res, err := conn.Exec(`INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, name)
	require.NoError(t, err, "insert deck")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// CreateCard inserts a card row and returns its id.
func CreateCard(t *testing.T, conn *sql.DB, deckID int64, question, answer string, difficulty int) int64 {
	t.Helper()

	res, err := conn.Exec(
		`INSERT INTO cards (deck_id, question, answer, difficulty) VALUES (?, ?, ?, ?)`,
		deckID, question, answer, difficulty)
	require.NoError(t, err, "insert card")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SetProgress writes scheduling state for a (user, card) pair directly.
func SetProgress(t *testing.T, conn *sql.DB, userID, cardID int64, level int, nextReview time.Time) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO card_progress (user_id, card_id, level, next_review)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, card_id) DO UPDATE SET
			level = excluded.level, next_review = excluded.next_review`,
		userID, cardID, level, nextReview.UTC())
	require.NoError(t, err, "set progress")
}

// Ctx returns a context for test calls.
func Ctx() context.Context { return context.Background() }

// SampleCards returns n cards with distinct answers, unsaved.
func SampleCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			Question:   "question " + string(rune('A'+i)),
			Answer:     "answer " + string(rune('A'+i)),
			Difficulty: 1 + i%3,
		}
	}
	return cards
}
