package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/testutil"
)

func TestDeckRepository_CreateAndGet(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")

	deck := &models.Deck{UserID: userID, Name: "capitals", Description: "world capitals"}
	require.NoError(t, repo.Create(ctx, deck))
	require.NotZero(t, deck.ID)

	testutil.CreateCard(t, conn, deck.ID, "France", "Paris", 1)
	testutil.CreateCard(t, conn, deck.ID, "Italy", "Rome", 1)

	got, err := repo.GetByID(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "capitals", got.Name)
	assert.Equal(t, "world capitals", got.Description)
	assert.Equal(t, 2, got.CardCount)
}

func TestDeckRepository_GetMissing(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)

	_, err := repo.GetByID(testutil.Ctx(), 42)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeckRepository_ListFiltersByUserAndName(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)
	ctx := testutil.Ctx()

	alice := testutil.CreateUser(t, conn, 1, "alice")
	bob := testutil.CreateUser(t, conn, 2, "bob")

	testutil.CreateDeck(t, conn, alice, "spanish verbs")
	testutil.CreateDeck(t, conn, alice, "french verbs")
	testutil.CreateDeck(t, conn, bob, "spanish verbs")

	decks, err := repo.List(ctx, models.DeckFilter{UserID: alice})
	require.NoError(t, err)
	assert.Len(t, decks, 2)

	decks, err = repo.List(ctx, models.DeckFilter{UserID: alice, Name: "spanish"})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "spanish verbs", decks[0].Name)
}

func TestDeckRepository_ListOrderByName(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")
	testutil.CreateDeck(t, conn, userID, "zoology")
	testutil.CreateDeck(t, conn, userID, "anatomy")

	decks, err := repo.List(ctx, models.DeckFilter{UserID: userID, OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "anatomy", decks[0].Name)
	assert.Equal(t, "zoology", decks[1].Name)
}

func TestDeckRepository_Update(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")
	deckID := testutil.CreateDeck(t, conn, userID, "capitals")

	err := repo.Update(ctx, &models.Deck{ID: deckID, Name: "world capitals", Description: "renamed"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, deckID)
	require.NoError(t, err)
	assert.Equal(t, "world capitals", got.Name)

	err = repo.Update(ctx, &models.Deck{ID: 999, Name: "nope"})
	assert.True(t, errors.IsNotFound(err))
}

func TestDeckRepository_DeleteCascades(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewDeckRepository(conn)
	ctx := testutil.Ctx()

	userID := testutil.CreateUser(t, conn, 1, "artem")
	deckID := testutil.CreateDeck(t, conn, userID, "capitals")
	cardID := testutil.CreateCard(t, conn, deckID, "France", "Paris", 1)
	testutil.SetProgress(t, conn, userID, cardID, 2, time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, deckID))

	var cards, progress int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deckID).Scan(&cards))
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM card_progress WHERE card_id = ?`, cardID).Scan(&progress))
	assert.Zero(t, cards)
	assert.Zero(t, progress)

	err := repo.Delete(ctx, deckID)
	assert.True(t, errors.IsNotFound(err))
}
