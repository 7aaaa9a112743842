package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
)

type DeckRepository struct {
	db *sql.DB
}

func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &DeckRepository{db: db}
}

func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck-repo")

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO decks (user_id, name, description) VALUES (?, ?, ?)`,
		deck.UserID, deck.Name, deck.Description)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("deck insert id: %w", err)
	}
	deck.ID = id
	log.Debug("created deck %d (%s) for user %d", deck.ID, deck.Name, deck.UserID)
	return nil
}

func (r *DeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
		SELECT d.id, d.user_id, d.name, d.description,
		       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id),
		       d.created_at, d.updated_at
		FROM decks d WHERE d.id = ?`, id).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get deck %d: %w", id, err)
	}
	return &d, nil
}

func (r *DeckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	q := builder.
		Select("d.id", "d.user_id", "d.name", "d.description",
			"(SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) AS card_count",
			"d.created_at", "d.updated_at").
		From("decks d")

	if filter.UserID != 0 {
		q = q.Where(sq.Eq{"d.user_id": filter.UserID})
	}
	if filter.Name != "" {
		q = q.Where(sq.Like{"d.name": "%" + filter.Name + "%"})
	}

	orderBy := "d.created_at DESC"
	switch filter.OrderBy {
	case "name":
		orderBy = "d.name ASC"
	case "updated":
		orderBy = "d.updated_at DESC"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deck list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *DeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE decks SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		deck.Name, deck.Description, deck.ID)
	if err != nil {
		return fmt.Errorf("update deck %d: %w", deck.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deck %d: %w", deck.ID, err)
	}
	if n == 0 {
		return errors.NewNotFoundError("deck", deck.ID)
	}
	return nil
}

func (r *DeckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck-repo")

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Progress and stats cascade from cards and decks, but history
		// rows for the deck are removed explicitly so a re-created deck
		// id never inherits old numbers.
		if _, err := tx.ExecContext(ctx, `DELETE FROM learning_stats WHERE deck_id = ?`, id); err != nil {
			return fmt.Errorf("delete deck %d stats: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete deck %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete deck %d: %w", id, err)
		}
		if n == 0 {
			return errors.NewNotFoundError("deck", id)
		}
		log.Debug("deleted deck %d", id)
		return nil
	})
}
