package services

import (
	"context"
	"time"

	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/study"
)

// Point values per rewarded action.
const (
	PointsCorrectFlashcard = 5
	PointsCorrectWrite     = 10
	PointsCorrectQuiz      = 8
	PointsPerfectSession   = 50
	PointsDailyStudy       = 20
)

const dateLayout = "2006-01-02"

// PointsForCorrect returns the reward for a correct answer in the given
// leaf mode.
func PointsForCorrect(mode study.Mode) int {
	switch mode {
	case study.ModeWrite:
		return PointsCorrectWrite
	case study.ModeQuiz:
		return PointsCorrectQuiz
	default:
		return PointsCorrectFlashcard
	}
}

// Badge thresholds checkable from durable state alone. Badges needing
// per-event history (perfect quiz count, timed runs) are not tracked.
var achievements = []struct {
	id, name string
	points   int
	earned   func(stats models.GamificationStats, decks int) bool
}{
	{"first_steps", "First steps", 10, func(s models.GamificationStats, _ int) bool { return s.MasteredCards >= 1 }},
	{"ten_cards", "Ten down", 50, func(s models.GamificationStats, _ int) bool { return s.MasteredCards >= 10 }},
	{"hundred_cards", "One hundred", 200, func(s models.GamificationStats, _ int) bool { return s.MasteredCards >= 100 }},
	{"week_streak", "Week streak", 100, func(s models.GamificationStats, _ int) bool { return s.MaxStreak >= 7 }},
	{"month_streak", "Month streak", 500, func(s models.GamificationStats, _ int) bool { return s.MaxStreak >= 30 }},
	{"collector", "Collector", 50, func(_ models.GamificationStats, decks int) bool { return decks >= 5 }},
}

// Achievements lists the badges earned at the given stats snapshot.
func Achievements(stats models.GamificationStats, decks int) []models.Achievement {
	var earned []models.Achievement
	for _, a := range achievements {
		if a.earned(stats, decks) {
			earned = append(earned, models.Achievement{ID: a.id, Name: a.name, Points: a.points})
		}
	}
	return earned
}

// GamificationService maintains point totals and study streaks.
type GamificationService struct {
	repo     repository.GamificationRepository
	progress repository.ProgressRepository
	now      func() time.Time
}

func NewGamificationService(repo repository.GamificationRepository, progress repository.ProgressRepository) *GamificationService {
	return &GamificationService{
		repo:     repo,
		progress: progress,
		now:      time.Now,
	}
}

// AwardCorrect adds the mode's reward for one correct answer and returns
// the new point total.
func (s *GamificationService) AwardCorrect(ctx context.Context, userID int64, mode study.Mode) (int, error) {
	return s.addPoints(ctx, userID, PointsForCorrect(mode))
}

// AwardPerfectSession adds the perfect-session bonus.
func (s *GamificationService) AwardPerfectSession(ctx context.Context, userID int64) (int, error) {
	return s.addPoints(ctx, userID, PointsPerfectSession)
}

func (s *GamificationService) addPoints(ctx context.Context, userID int64, points int) (int, error) {
	g, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	g.TotalPoints += points
	if err := s.repo.Save(ctx, g); err != nil {
		return 0, err
	}
	return g.TotalPoints, nil
}

// RecordStudyDay updates the streak for a study event at the current
// time and pays the daily bonus on the first study of a calendar day.
// Same day keeps the streak, a consecutive day extends it, a gap resets
// it to one. Returns the bonus awarded, zero on repeat studies.
func (s *GamificationService) RecordStudyDay(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("gamification")

	g, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	if g.LastStudyDate != nil && *g.LastStudyDate == today {
		return 0, nil
	}

	if g.LastStudyDate != nil && *g.LastStudyDate == yesterday {
		g.CurrentStreak++
	} else {
		g.CurrentStreak = 1
	}
	if g.CurrentStreak > g.MaxStreak {
		g.MaxStreak = g.CurrentStreak
	}
	g.StudyDaysStreak = g.CurrentStreak
	g.LastStudyDate = &today
	g.TotalPoints += PointsDailyStudy

	if err := s.repo.Save(ctx, g); err != nil {
		return 0, err
	}
	log.Debug("user %d streak now %d (max %d)", userID, g.CurrentStreak, g.MaxStreak)
	return PointsDailyStudy, nil
}

// FullStats merges the point record with mastered/learning card counts.
func (s *GamificationService) FullStats(ctx context.Context, userID int64) (*models.GamificationStats, error) {
	g, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	mastered, learning, err := s.progress.MasteryCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.GamificationStats{
		TotalPoints:     g.TotalPoints,
		CurrentStreak:   g.CurrentStreak,
		MaxStreak:       g.MaxStreak,
		StudyDaysStreak: g.StudyDaysStreak,
		MasteredCards:   mastered,
		LearningCards:   learning,
	}, nil
}
