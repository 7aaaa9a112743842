package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/testutil"
)

func TestGamificationRepository_GetReturnsZeroRecordWhenMissing(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewGamificationRepository(conn)

	g, err := repo.Get(testutil.Ctx(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), g.UserID)
	assert.Zero(t, g.TotalPoints)
	assert.Zero(t, g.CurrentStreak)
	assert.Nil(t, g.LastStudyDate)
}

func TestGamificationRepository_SaveRoundTrip(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewGamificationRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 7, "artem")
	date := "2026-08-31"
	err := repo.Save(ctx, &models.Gamification{
		UserID:          userID,
		TotalPoints:     120,
		CurrentStreak:   3,
		MaxStreak:       5,
		LastStudyDate:   &date,
		StudyDaysStreak: 3,
	})
	require.NoError(t, err)

	g, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 120, g.TotalPoints)
	assert.Equal(t, 3, g.CurrentStreak)
	assert.Equal(t, 5, g.MaxStreak)
	require.NotNil(t, g.LastStudyDate)
	assert.Equal(t, date, *g.LastStudyDate)

	// Second save overwrites, not accumulates.
	err = repo.Save(ctx, &models.Gamification{UserID: userID, TotalPoints: 10, LastStudyDate: &date})
	require.NoError(t, err)
	g, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, g.TotalPoints)
	assert.Zero(t, g.CurrentStreak)
}
