// Package services holds the application services between the transports
// and the repositories.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/srs"
)

// SchedulerService owns the durable side of spaced repetition: progress
// rows, due queries and mastery statistics. The transition itself lives
// in internal/srs.
type SchedulerService struct {
	progress repository.ProgressRepository
	now      func() time.Time
}

func NewSchedulerService(progress repository.ProgressRepository) *SchedulerService {
	return &SchedulerService{
		progress: progress,
		now:      time.Now,
	}
}

// InitCards makes sure every card has a progress row for the user, due
// immediately. Existing rows are left alone.
func (s *SchedulerService) InitCards(ctx context.Context, userID int64, cardIDs []int64) error {
	now := s.now()
	for _, cardID := range cardIDs {
		if err := s.progress.Init(ctx, userID, cardID, now); err != nil {
			return fmt.Errorf("init card %d: %w", cardID, err)
		}
	}
	return nil
}

// RecordOutcome applies one judged outcome to the card's schedule. A
// missing progress row is created first, so a card studied before its
// init is never lost.
func (s *SchedulerService) RecordOutcome(ctx context.Context, userID, cardID int64, outcome srs.Outcome) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("scheduler")

	now := s.now()
	updated, err := s.progress.Apply(ctx, userID, cardID, now, func(p models.CardProgress) models.CardProgress {
		return srs.Apply(p, outcome, now)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("recorded %s for user=%d card=%d, level now %d", outcome, userID, cardID, updated.Level)
	return updated, nil
}

// DueCards returns the user's due cards in deckID, weakest level first.
func (s *SchedulerService) DueCards(ctx context.Context, userID, deckID int64, limit int) ([]models.DueCard, error) {
	return s.progress.DueCards(ctx, userID, deckID, s.now(), limit)
}

// DueCount counts due cards across all of the user's decks.
func (s *SchedulerService) DueCount(ctx context.Context, userID int64) (int, error) {
	return s.progress.DueCount(ctx, userID, s.now())
}

// DeckProgress returns the mastery breakdown for one deck.
func (s *SchedulerService) DeckProgress(ctx context.Context, userID, deckID int64) (*models.DeckStats, error) {
	return s.progress.DeckStats(ctx, userID, deckID)
}
