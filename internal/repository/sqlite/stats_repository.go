package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) RecordSession(ctx context.Context, userID, deckID int64, studied, correct, attempts int, when time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learning_stats (user_id, deck_id, cards_studied, correct_answers, total_attempts, last_studied)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, deck_id) DO UPDATE SET
			cards_studied = cards_studied + excluded.cards_studied,
			correct_answers = correct_answers + excluded.correct_answers,
			total_attempts = total_attempts + excluded.total_attempts,
			last_studied = excluded.last_studied`,
		userID, deckID, studied, correct, attempts, when.UTC())
	if err != nil {
		return fmt.Errorf("record session for user %d deck %d: %w", userID, deckID, err)
	}
	return nil
}

func (r *StatsRepository) DeckRecord(ctx context.Context, userID, deckID int64) (*models.StudyRecord, error) {
	var rec models.StudyRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, deck_id, cards_studied, correct_answers, total_attempts, last_studied
		FROM learning_stats WHERE user_id = ? AND deck_id = ?`,
		userID, deckID).
		Scan(&rec.ID, &rec.UserID, &rec.DeckID, &rec.CardsStudied, &rec.CorrectAnswers, &rec.TotalAttempts, &rec.LastStudied)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("study record", deckID)
	}
	if err != nil {
		return nil, fmt.Errorf("study record for user %d deck %d: %w", userID, deckID, err)
	}
	return &rec, nil
}

func (r *StatsRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	var s models.UserStats
	// MAX() strips the column's declared type, so the driver hands the
	// value back as text.
	var lastStudied sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM decks WHERE user_id = ?),
			COALESCE(SUM(cards_studied), 0),
			COALESCE(SUM(correct_answers), 0),
			COALESCE(SUM(total_attempts), 0),
			MAX(last_studied)
		FROM learning_stats WHERE user_id = ?`,
		userID, userID).
		Scan(&s.DecksCount, &s.TotalStudied, &s.TotalCorrect, &s.TotalAttempts, &lastStudied)
	if err != nil {
		return nil, fmt.Errorf("user stats for %d: %w", userID, err)
	}
	if lastStudied.Valid {
		ts, err := parseStoredTime(lastStudied.String)
		if err != nil {
			return nil, fmt.Errorf("user stats for %d: %w", userID, err)
		}
		s.LastStudied = &ts
	}
	if s.TotalAttempts > 0 {
		s.Accuracy = float64(s.TotalCorrect) / float64(s.TotalAttempts) * 100
	}
	return &s, nil
}

func parseStoredTime(value string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse stored time %q", value)
}
