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

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (deck_id, question, answer, difficulty) VALUES (?, ?, ?, ?)`,
		card.DeckID, card.Question, card.Answer, card.Difficulty)
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("card insert id: %w", err)
	}
	card.ID = id
	return nil
}

func (r *CardRepository) CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card-repo")

	var inserted int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO cards (deck_id, question, answer, difficulty) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare card insert: %w", err)
		}
		defer stmt.Close()

		for i := range cards {
			if _, err := stmt.ExecContext(ctx, deckID, cards[i].Question, cards[i].Answer, cards[i].Difficulty); err != nil {
				return fmt.Errorf("insert card %d of %d: %w", i+1, len(cards), err)
			}
			inserted++
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE decks SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, deckID)
		if err != nil {
			return fmt.Errorf("touch deck %d: %w", deckID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("inserted %d cards into deck %d", inserted, deckID)
	return inserted, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	var c models.Card
	err := r.db.QueryRowContext(ctx, `
		SELECT id, deck_id, question, answer, difficulty, created_at, updated_at
		FROM cards WHERE id = ?`, id).
		Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Difficulty, &c.CreatedAt, &c.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("card", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return &c, nil
}

func (r *CardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, deck_id, question, answer, difficulty, created_at, updated_at
		FROM cards WHERE deck_id = ? ORDER BY id`, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Difficulty, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards SET question = ?, answer = ?, difficulty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		card.Question, card.Answer, card.Difficulty, card.ID)
	if err != nil {
		return fmt.Errorf("update card %d: %w", card.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card %d: %w", card.ID, err)
	}
	if n == 0 {
		return errors.NewNotFoundError("card", card.ID)
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if n == 0 {
		return errors.NewNotFoundError("card", id)
	}
	return nil
}
