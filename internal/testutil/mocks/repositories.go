// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/artem/quizbot/internal/models"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) Settings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}

func (m *UserRepository) SaveSettings(ctx context.Context, settings *models.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *UserRepository) ListNotifiable(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type DeckRepository struct {
	mock.Mock
}

func (m *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *DeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *DeckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *DeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *DeckRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CardRepository struct {
	mock.Mock
}

func (m *CardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *CardRepository) CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, error) {
	args := m.Called(ctx, deckID, cards)
	return args.Int(0), args.Error(1)
}

func (m *CardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *CardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *CardRepository) Update(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *CardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Init(ctx context.Context, userID, cardID int64, now time.Time) error {
	args := m.Called(ctx, userID, cardID, now)
	return args.Error(0)
}

func (m *ProgressRepository) Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *ProgressRepository) Apply(ctx context.Context, userID, cardID int64, now time.Time, fn func(models.CardProgress) models.CardProgress) (*models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID, now, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *ProgressRepository) DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.DueCard, error) {
	args := m.Called(ctx, userID, deckID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueCard), args.Error(1)
}

func (m *ProgressRepository) DueCount(ctx context.Context, userID int64, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}

func (m *ProgressRepository) DeckStats(ctx context.Context, userID, deckID int64) (*models.DeckStats, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckStats), args.Error(1)
}

func (m *ProgressRepository) MasteryCounts(ctx context.Context, userID int64) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) RecordSession(ctx context.Context, userID, deckID int64, studied, correct, attempts int, when time.Time) error {
	args := m.Called(ctx, userID, deckID, studied, correct, attempts, when)
	return args.Error(0)
}

func (m *StatsRepository) DeckRecord(ctx context.Context, userID, deckID int64) (*models.StudyRecord, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyRecord), args.Error(1)
}

func (m *StatsRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

type GamificationRepository struct {
	mock.Mock
}

func (m *GamificationRepository) Get(ctx context.Context, userID int64) (*models.Gamification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gamification), args.Error(1)
}

func (m *GamificationRepository) Save(ctx context.Context, g *models.Gamification) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
