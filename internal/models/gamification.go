package models

// Gamification is the durable point/streak record for one user.
type Gamification struct {
	UserID          int64   `json:"user_id"`
	TotalPoints     int     `json:"total_points"`
	CurrentStreak   int     `json:"current_streak"`
	MaxStreak       int     `json:"max_streak"`
	LastStudyDate   *string `json:"last_study_date"` // YYYY-MM-DD, nil before first study
	StudyDaysStreak int     `json:"study_days_streak"`
}

// Achievement is one earned badge.
type Achievement struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// GamificationStats merges point totals with card mastery counts.
type GamificationStats struct {
	TotalPoints     int `json:"total_points"`
	CurrentStreak   int `json:"current_streak"`
	MaxStreak       int `json:"max_streak"`
	StudyDaysStreak int `json:"study_days_streak"`
	MasteredCards   int `json:"mastered_cards"`
	LearningCards   int `json:"learning_cards"`
}
