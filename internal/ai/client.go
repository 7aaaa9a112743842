// Package ai generates card content through an OpenAI-compatible chat
// completion endpoint. The feature is optional: a client without an API
// key reports itself disabled and every call fails fast.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artem/quizbot/internal/models"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

const systemPrompt = "You are a study assistant that writes concise, factual flashcard content. Answer with only the requested content, no preamble."

type Client struct {
	apiURL      string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	http        *http.Client
}

func New(apiURL, apiKey string) *Client {
	return &Client{
		apiURL:      apiURL,
		apiKey:      apiKey,
		model:       defaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the client is configured to make calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiURL != "" && c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("ai assistant is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion api: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion api returned no choices (status %d)", resp.StatusCode)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// GenerateDefinition produces a one-sentence definition for a term.
func (c *Client) GenerateDefinition(ctx context.Context, term string) (string, error) {
	return c.complete(ctx, fmt.Sprintf("Give a single concise definition of %q.", term))
}

// GenerateExamples produces up to n example sentences using a term.
func (c *Client) GenerateExamples(ctx context.Context, term string, n int) ([]string, error) {
	if n < 1 {
		n = 1
	}
	raw, err := c.complete(ctx, fmt.Sprintf(
		"Write %d short example sentences using %q, one per line, no numbering.", n, term))
	if err != nil {
		return nil, err
	}

	var examples []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			examples = append(examples, line)
		}
	}
	if len(examples) > n {
		examples = examples[:n]
	}
	return examples, nil
}

// GenerateQuizCards asks for n question/answer pairs on a topic and
// parses the "question | answer" lines into cards. Malformed lines are
// dropped; an empty result is an error.
func (c *Client) GenerateQuizCards(ctx context.Context, topic string, n int) ([]models.Card, error) {
	if n < 1 {
		n = 5
	}
	raw, err := c.complete(ctx, fmt.Sprintf(
		"Create %d quiz flashcards about %q. Output one card per line in the exact format: question | answer", n, topic))
	if err != nil {
		return nil, err
	}

	cards := ParseCardLines(raw)
	if len(cards) == 0 {
		return nil, fmt.Errorf("no usable cards in model output")
	}
	if len(cards) > n {
		cards = cards[:n]
	}
	return cards, nil
}

// ParseCardLines extracts "question | answer" pairs from model output,
// skipping blank and malformed lines.
func ParseCardLines(raw string) []models.Card {
	var cards []models.Card
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		question, answer, found := strings.Cut(line, "|")
		question = strings.TrimSpace(question)
		answer = strings.TrimSpace(answer)
		if !found || question == "" || answer == "" {
			continue
		}
		cards = append(cards, models.Card{Question: question, Answer: answer, Difficulty: 1})
	}
	return cards
}
