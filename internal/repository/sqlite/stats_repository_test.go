package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/testutil"
)

func TestStatsRepository_RecordSessionAccumulates(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewStatsRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")
	deckID := testutil.CreateDeck(t, conn, userID, "capitals")

	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	second := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.RecordSession(ctx, userID, deckID, 10, 8, 10, first))
	require.NoError(t, repo.RecordSession(ctx, userID, deckID, 5, 5, 6, second))

	rec, err := repo.DeckRecord(ctx, userID, deckID)
	require.NoError(t, err)
	assert.Equal(t, 15, rec.CardsStudied)
	assert.Equal(t, 13, rec.CorrectAnswers)
	assert.Equal(t, 16, rec.TotalAttempts)
	require.NotNil(t, rec.LastStudied)
	assert.WithinDuration(t, second, *rec.LastStudied, time.Second)
}

func TestStatsRepository_DeckRecordMissing(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewStatsRepository(conn)

	_, err := repo.DeckRecord(testutil.Ctx(), 1, 42)
	assert.True(t, errors.IsNotFound(err))
}

func TestStatsRepository_UserStatsAggregates(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewStatsRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")
	deckA := testutil.CreateDeck(t, conn, userID, "capitals")
	deckB := testutil.CreateDeck(t, conn, userID, "verbs")

	when := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.RecordSession(ctx, userID, deckA, 10, 7, 10, when.Add(-time.Hour)))
	require.NoError(t, repo.RecordSession(ctx, userID, deckB, 10, 8, 10, when))

	stats, err := repo.UserStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DecksCount)
	assert.Equal(t, 20, stats.TotalStudied)
	assert.Equal(t, 15, stats.TotalCorrect)
	assert.Equal(t, 20, stats.TotalAttempts)
	assert.InDelta(t, 75.0, stats.Accuracy, 0.001)
	require.NotNil(t, stats.LastStudied)
	assert.WithinDuration(t, when, *stats.LastStudied, time.Second)
}

func TestStatsRepository_UserStatsNoHistory(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewStatsRepository(conn)

	userID := testutil.CreateUser(t, conn, 1, "artem")

	stats, err := repo.UserStats(testutil.Ctx(), userID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalStudied)
	assert.Zero(t, stats.Accuracy)
	assert.Nil(t, stats.LastStudied)
}
