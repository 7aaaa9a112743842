// Package repository defines the storage interfaces the services depend
// on. Implementations live in subpackages; tests substitute mocks.
package repository

import (
	"context"
	"time"

	"github.com/artem/quizbot/internal/models"
)

// UserRepository persists users and their per-user settings.
type UserRepository interface {
	// Upsert creates the user on first contact and refreshes the
	// username on subsequent calls.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Settings returns the user's settings, falling back to defaults
	// when no row exists yet.
	Settings(ctx context.Context, userID int64) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, settings *models.UserSettings) error

	// ListNotifiable returns users whose settings have notifications
	// enabled.
	ListNotifiable(ctx context.Context) ([]models.User, error)
}

// DeckRepository persists decks.
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id int64) error
}

// CardRepository persists cards.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	// CreateBatch inserts all cards into deckID in one transaction and
	// returns how many rows were written.
	CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id int64) error
}

// ProgressRepository persists per-(user, card) scheduling state.
type ProgressRepository interface {
	// Init creates a fresh progress row due immediately. Calling it
	// again for the same pair is a no-op.
	Init(ctx context.Context, userID, cardID int64, now time.Time) error
	Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error)

	// Apply runs fn over the current row inside a transaction and
	// writes the result back, creating the row first if missing. The
	// returned value is the stored state after the update.
	Apply(ctx context.Context, userID, cardID int64, now time.Time, fn func(models.CardProgress) models.CardProgress) (*models.CardProgress, error)

	// DueCards returns cards in deckID whose next_review is at or
	// before now, weakest level first. limit <= 0 means no limit.
	DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.DueCard, error)
	// DueCount counts due cards across all of the user's decks.
	DueCount(ctx context.Context, userID int64, now time.Time) (int, error)

	DeckStats(ctx context.Context, userID, deckID int64) (*models.DeckStats, error)
	// MasteryCounts returns how many of the user's tracked cards are
	// mastered and how many are still being learned.
	MasteryCounts(ctx context.Context, userID int64) (mastered, learning int, err error)
}

// StatsRepository persists per-(user, deck) study history.
type StatsRepository interface {
	// RecordSession folds one finished session into the user's history
	// for the deck.
	RecordSession(ctx context.Context, userID, deckID int64, studied, correct, attempts int, when time.Time) error
	DeckRecord(ctx context.Context, userID, deckID int64) (*models.StudyRecord, error)
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// GamificationRepository persists point totals and streaks.
type GamificationRepository interface {
	// Get returns the user's record, creating a zeroed one on first
	// access.
	Get(ctx context.Context, userID int64) (*models.Gamification, error)
	Save(ctx context.Context, g *models.Gamification) error
}
