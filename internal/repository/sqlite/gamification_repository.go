package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

type GamificationRepository struct {
	db *sql.DB
}

func NewGamificationRepository(db *sql.DB) repository.GamificationRepository {
	return &GamificationRepository{db: db}
}

func (r *GamificationRepository) Get(ctx context.Context, userID int64) (*models.Gamification, error) {
	g := models.Gamification{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT total_points, current_streak, max_streak, last_study_date, study_days_streak
		FROM user_gamification WHERE user_id = ?`, userID).
		Scan(&g.TotalPoints, &g.CurrentStreak, &g.MaxStreak, &g.LastStudyDate, &g.StudyDaysStreak)
	if stderrors.Is(err, sql.ErrNoRows) {
		return &g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get gamification for user %d: %w", userID, err)
	}
	return &g, nil
}

func (r *GamificationRepository) Save(ctx context.Context, g *models.Gamification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_gamification (user_id, total_points, current_streak, max_streak, last_study_date, study_days_streak)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_points = excluded.total_points,
			current_streak = excluded.current_streak,
			max_streak = excluded.max_streak,
			last_study_date = excluded.last_study_date,
			study_days_streak = excluded.study_days_streak`,
		g.UserID, g.TotalPoints, g.CurrentStreak, g.MaxStreak, g.LastStudyDate, g.StudyDaysStreak)
	if err != nil {
		return fmt.Errorf("save gamification for user %d: %w", g.UserID, err)
	}
	return nil
}
