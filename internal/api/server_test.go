package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/repository/sqlite"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/testutil"
	"github.com/artem/quizbot/internal/worker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn := testutil.NewTestDB(t)

	users := sqlite.NewUserRepository(conn)
	decks := sqlite.NewDeckRepository(conn)
	cards := sqlite.NewCardRepository(conn)
	progress := sqlite.NewProgressRepository(conn)
	stats := sqlite.NewStatsRepository(conn)
	gami := sqlite.NewGamificationRepository(conn)

	scheduler := services.NewSchedulerService(progress)
	gamification := services.NewGamificationService(gami, progress)
	deckSvc := services.NewDeckService(decks, cards)
	studySvc := services.NewStudyService(decks, cards, scheduler, stats, gamification, 20)
	statsSvc := services.NewStatsService(stats, scheduler, gamification, deckSvc)

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	srv := NewServer(deckSvc, studySvc, statsSvc, users, nil, pool)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("X-User-Name", "artem")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var parsed map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && json.Valid(data) {
		require.NoError(t, json.Unmarshal(data, &parsed))
	}
	return resp, parsed
}

func createDeckWithCards(t *testing.T, base string, cards [][2]string) int64 {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, base+"/api/decks", map[string]any{"name": "test deck"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	deckID := int64(body["id"].(float64))

	for _, qa := range cards {
		resp, _ := doJSON(t, http.MethodPost, base+"/api/decks/"+itoa(deckID)+"/cards",
			map[string]any{"question": qa[0], "answer": qa[1]})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	return deckID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingUserHeader(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/decks")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeckLifecycle(t *testing.T) {
	ts := newTestServer(t)

	deckID := createDeckWithCards(t, ts.URL, [][2]string{{"France", "Paris"}})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/decks", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decks := body["decks"].([]any)
	require.Len(t, decks, 1)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/decks/"+itoa(deckID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["card_count"])

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/decks/"+itoa(deckID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/decks/"+itoa(deckID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestStartSessionEmptyDeck(t *testing.T) {
	ts := newTestServer(t)

	deckID := createDeckWithCards(t, ts.URL, nil)
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/study/sessions",
		map[string]any{"deck_id": deckID, "mode": "flashcard"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "EMPTY_DECK", errObj["code"])
}

func TestFlashcardSessionOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	deckID := createDeckWithCards(t, ts.URL, [][2]string{{"France", "Paris"}})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/study/sessions",
		map[string]any{"deck_id": deckID, "mode": "flashcard"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID := body["session_id"].(string)
	turn := body["turn"].(map[string]any)
	assert.Equal(t, "France", turn["question"])
	assert.Empty(t, turn["answer"], "answer hidden before the flip")

	turnURL := ts.URL + "/api/study/sessions/" + sessionID + "/turn"

	resp, body = doJSON(t, http.MethodPost, turnURL, map[string]any{"action": "flip"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	next := body["next"].(map[string]any)
	assert.Equal(t, "Paris", next["answer"])

	resp, body = doJSON(t, http.MethodPost, turnURL, map[string]any{"action": "rate", "rating": "good"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(100), summary["accuracy"])

	// The finished session's handle is stale now.
	resp, body = doJSON(t, http.MethodPost, turnURL, map[string]any{"action": "flip"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NO_ACTIVE_SESSION", errObj["code"])
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)

	deckID := createDeckWithCards(t, ts.URL, [][2]string{{"France", "Paris"}, {"Italy", "Rome"}})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/decks/"+itoa(deckID)+"/export?format=csv", nil)
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "7")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "France,Paris")
	assert.Contains(t, string(data), "Italy,Rome")
}

func TestImportTextAsync(t *testing.T) {
	ts := newTestServer(t)

	deckID := createDeckWithCards(t, ts.URL, nil)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/decks/"+itoa(deckID)+"/import?format=text",
		strings.NewReader("France | Paris\nItaly | Rome\nbad line\n"))
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "7")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		_, body := doJSON(t, http.MethodGet, ts.URL+"/api/decks/"+itoa(deckID)+"/cards", nil)
		cards, ok := body["cards"].([]any)
		return ok && len(cards) == 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestUserStats(t *testing.T) {
	ts := newTestServer(t)

	createDeckWithCards(t, ts.URL, [][2]string{{"France", "Paris"}})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	study := body["study"].(map[string]any)
	assert.Equal(t, float64(1), study["decks_count"])
}

func TestSettingsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	// Defaults before any row exists.
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["notifications"])
	assert.Equal(t, float64(20), body["cards_per_session"])

	// Partial update only changes what it names.
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/settings",
		map[string]any{"cards_per_session": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), body["cards_per_session"])
	assert.Equal(t, true, body["notifications"])

	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/settings",
		map[string]any{"cards_per_session": 500})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["error"].(map[string]any)["code"])
}

func TestSessionUsesCardsPerSessionSetting(t *testing.T) {
	ts := newTestServer(t)

	cards := make([][2]string, 5)
	for i := range cards {
		cards[i] = [2]string{"q" + itoa(int64(i)), "a" + itoa(int64(i))}
	}
	deckID := createDeckWithCards(t, ts.URL, cards)

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/api/settings",
		map[string]any{"cards_per_session": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/study/sessions",
		map[string]any{"deck_id": deckID, "mode": "flashcard"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	turn := body["turn"].(map[string]any)
	assert.Equal(t, float64(2), turn["total"])
}
