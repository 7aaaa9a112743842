package services

import (
	"context"

	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

// Overview is everything the stats screen shows for one user.
type Overview struct {
	Study        models.UserStats         `json:"study"`
	Gamification models.GamificationStats `json:"gamification"`
	DueNow       int                      `json:"due_now"`
	Achievements []models.Achievement     `json:"achievements,omitempty"`
}

// DeckOverview combines scheduling state with study history for one deck.
type DeckOverview struct {
	Deck    models.Deck         `json:"deck"`
	Cards   models.DeckStats    `json:"cards"`
	History *models.StudyRecord `json:"history,omitempty"`
}

// StatsService assembles the read-only statistics views.
type StatsService struct {
	stats        repository.StatsRepository
	scheduler    *SchedulerService
	gamification *GamificationService
	decks        *DeckService
}

func NewStatsService(stats repository.StatsRepository, scheduler *SchedulerService, gamification *GamificationService, decks *DeckService) *StatsService {
	return &StatsService{
		stats:        stats,
		scheduler:    scheduler,
		gamification: gamification,
		decks:        decks,
	}
}

// UserOverview builds the global stats screen.
func (s *StatsService) UserOverview(ctx context.Context, userID int64) (*Overview, error) {
	study, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	gami, err := s.gamification.FullStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	due, err := s.scheduler.DueCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Study:        *study,
		Gamification: *gami,
		DueNow:       due,
		Achievements: Achievements(*gami, study.DecksCount),
	}, nil
}

// DeckOverview builds the per-deck stats screen. A deck never studied has
// no history.
func (s *StatsService) DeckOverview(ctx context.Context, userID, deckID int64) (*DeckOverview, error) {
	deck, err := s.decks.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	cards, err := s.scheduler.DeckProgress(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	out := &DeckOverview{Deck: *deck, Cards: *cards}

	if rec, err := s.stats.DeckRecord(ctx, userID, deckID); err == nil {
		out.History = rec
	}
	return out, nil
}
