package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/testutil"
)

func TestUserRepository_UpsertRefreshesUsername(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewUserRepository(conn)
	ctx := testutil.Ctx()

	require.NoError(t, repo.Upsert(ctx, &models.User{ID: 7, Username: "old_name"}))
	require.NoError(t, repo.Upsert(ctx, &models.User{ID: 7, Username: "new_name"}))

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "new_name", got.Username)
}

func TestUserRepository_SettingsDefaultsWhenMissing(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewUserRepository(conn)

	s, err := repo.Settings(testutil.Ctx(), 7)
	require.NoError(t, err)
	assert.True(t, s.Notifications)
	assert.Equal(t, 20, s.CardsPerSession)
	assert.Equal(t, "20:00", s.ReminderTime)
}

func TestUserRepository_SaveSettingsRoundTrip(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewUserRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 7, "artem")
	err := repo.SaveSettings(ctx, &models.UserSettings{
		UserID:          userID,
		Notifications:   false,
		CardsPerSession: 10,
		ReminderTime:    "08:30",
	})
	require.NoError(t, err)

	s, err := repo.Settings(ctx, userID)
	require.NoError(t, err)
	assert.False(t, s.Notifications)
	assert.Equal(t, 10, s.CardsPerSession)
	assert.Equal(t, "08:30", s.ReminderTime)
}

func TestUserRepository_ListNotifiable(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewUserRepository(conn)
	ctx := testutil.Ctx()

	// No settings row keeps the default of notifications on.
	testutil.CreateUser(t, conn, 1, "implicit_on")
	on := testutil.CreateUser(t, conn, 2, "explicit_on")
	off := testutil.CreateUser(t, conn, 3, "opted_out")

	require.NoError(t, repo.SaveSettings(ctx, &models.UserSettings{UserID: on, Notifications: true, CardsPerSession: 20, ReminderTime: "20:00"}))
	require.NoError(t, repo.SaveSettings(ctx, &models.UserSettings{UserID: off, Notifications: false, CardsPerSession: 20, ReminderTime: "20:00"}))

	users, err := repo.ListNotifiable(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)
}
