package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Deck struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Card struct {
	ID         int64     `json:"id"`
	DeckID     int64     `json:"deck_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DeckFilter struct {
	UserID  int64
	Name    string
	Limit   int
	Offset  int
	OrderBy string
}

type UserSettings struct {
	UserID          int64  `json:"user_id"`
	Notifications   bool   `json:"notifications"`
	CardsPerSession int    `json:"cards_per_session"`
	ReminderTime    string `json:"reminder_time"`
}
