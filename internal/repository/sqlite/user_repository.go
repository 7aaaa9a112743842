package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user-repo")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username`,
		user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.ID, err)
	}
	log.Debug("upserted user %d (%s)", user.ID, user.Username)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) Settings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	var s models.UserSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, notifications, cards_per_session, reminder_time
		FROM user_settings WHERE user_id = ?`, userID).
		Scan(&s.UserID, &s.Notifications, &s.CardsPerSession, &s.ReminderTime)
	if stderrors.Is(err, sql.ErrNoRows) {
		return &models.UserSettings{
			UserID:          userID,
			Notifications:   true,
			CardsPerSession: 20,
			ReminderTime:    "20:00",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings for user %d: %w", userID, err)
	}
	return &s, nil
}

func (r *UserRepository) SaveSettings(ctx context.Context, settings *models.UserSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, notifications, cards_per_session, reminder_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			notifications = excluded.notifications,
			cards_per_session = excluded.cards_per_session,
			reminder_time = excluded.reminder_time`,
		settings.UserID, settings.Notifications, settings.CardsPerSession, settings.ReminderTime)
	if err != nil {
		return fmt.Errorf("save settings for user %d: %w", settings.UserID, err)
	}
	return nil
}

func (r *UserRepository) ListNotifiable(ctx context.Context) ([]models.User, error) {
	// Users without a settings row keep the default of notifications on.
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.created_at
		FROM users u
		LEFT JOIN user_settings s ON s.user_id = u.id
		WHERE s.user_id IS NULL OR s.notifications = 1
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list notifiable users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
