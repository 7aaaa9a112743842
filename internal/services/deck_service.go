package services

import (
	"context"
	"strings"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

// DeckService manages decks and their cards on behalf of one user. Every
// operation checks deck ownership; a foreign deck reads as not found.
type DeckService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
}

func NewDeckService(decks repository.DeckRepository, cards repository.CardRepository) *DeckService {
	return &DeckService{decks: decks, cards: cards}
}

func (s *DeckService) CreateDeck(ctx context.Context, userID int64, name, description string) (*models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	deck := &models.Deck{UserID: userID, Name: name, Description: strings.TrimSpace(description)}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user %d created deck %d (%s)", userID, deck.ID, deck.Name)
	return deck, nil
}

func (s *DeckService) ListDecks(ctx context.Context, userID int64) ([]models.Deck, error) {
	return s.decks.List(ctx, models.DeckFilter{UserID: userID})
}

// GetDeck returns the deck only if it belongs to userID.
func (s *DeckService) GetDeck(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *DeckService) UpdateDeck(ctx context.Context, userID int64, deck *models.Deck) error {
	if _, err := s.GetDeck(ctx, userID, deck.ID); err != nil {
		return err
	}
	if strings.TrimSpace(deck.Name) == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	return s.decks.Update(ctx, deck)
}

func (s *DeckService) DeleteDeck(ctx context.Context, userID, deckID int64) error {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return err
	}
	return s.decks.Delete(ctx, deckID)
}

func (s *DeckService) AddCard(ctx context.Context, userID, deckID int64, question, answer string, difficulty int) (*models.Card, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}
	if difficulty < 1 || difficulty > 3 {
		difficulty = 1
	}

	card := &models.Card{DeckID: deckID, Question: question, Answer: answer, Difficulty: difficulty}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// AddCards bulk-inserts pre-parsed cards, used by the importers.
func (s *DeckService) AddCards(ctx context.Context, userID, deckID int64, cards []models.Card) (int, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, nil
	}
	return s.cards.CreateBatch(ctx, deckID, cards)
}

func (s *DeckService) ListCards(ctx context.Context, userID, deckID int64) ([]models.Card, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

func (s *DeckService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if _, err := s.GetDeck(ctx, userID, card.DeckID); err != nil {
		return err
	}
	return s.cards.Delete(ctx, cardID)
}
