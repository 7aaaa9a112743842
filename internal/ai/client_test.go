package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem/quizbot/internal/testutil"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		payload := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(payload)
	}))
}

func TestClient_Disabled(t *testing.T) {
	c := New("", "")
	assert.False(t, c.Enabled())

	_, err := c.GenerateDefinition(testutil.Ctx(), "osmosis")
	assert.Error(t, err)
}

func TestClient_GenerateDefinition(t *testing.T) {
	srv := completionServer(t, "  Movement of solvent across a membrane.  ")
	defer srv.Close()

	c := New(srv.URL, "test-key")
	def, err := c.GenerateDefinition(testutil.Ctx(), "osmosis")
	require.NoError(t, err)
	assert.Equal(t, "Movement of solvent across a membrane.", def)
}

func TestClient_GenerateExamplesSplitsLines(t *testing.T) {
	srv := completionServer(t, "First sentence.\n\nSecond sentence.\nThird sentence.")
	defer srv.Close()

	c := New(srv.URL, "test-key")
	examples, err := c.GenerateExamples(testutil.Ctx(), "osmosis", 2)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, "First sentence.", examples[0])
}

func TestClient_GenerateQuizCards(t *testing.T) {
	srv := completionServer(t,
		"What is the capital of France? | Paris\n"+
			"malformed line without separator\n"+
			"Largest planet? | Jupiter\n")
	defer srv.Close()

	c := New(srv.URL, "test-key")
	cards, err := c.GenerateQuizCards(testutil.Ctx(), "trivia", 5)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Paris", cards[0].Answer)
	assert.Equal(t, "Largest planet?", cards[1].Question)
}

func TestClient_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	_, err := c.GenerateDefinition(testutil.Ctx(), "osmosis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestParseCardLines(t *testing.T) {
	cards := ParseCardLines("Q1 | A1\n | orphan answer\nquestion only | \nQ2|A2")
	require.Len(t, cards, 2)
	assert.Equal(t, "Q1", cards[0].Question)
	assert.Equal(t, "A2", cards[1].Answer)
}
