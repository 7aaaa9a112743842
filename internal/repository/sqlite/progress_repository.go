package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/srs"
)

type ProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Init(ctx context.Context, userID, cardID int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO card_progress (user_id, card_id, level, next_review)
		VALUES (?, ?, 0, ?)`,
		userID, cardID, now.UTC())
	if err != nil {
		return fmt.Errorf("init progress for user %d card %d: %w", userID, cardID, err)
	}
	return nil
}

func (r *ProgressRepository) Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error) {
	var p models.CardProgress
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, card_id, level, next_review, correct_count, wrong_count
		FROM card_progress WHERE user_id = ? AND card_id = ?`,
		userID, cardID).
		Scan(&p.ID, &p.UserID, &p.CardID, &p.Level, &p.NextReview, &p.CorrectCount, &p.WrongCount)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("card progress", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("get progress for user %d card %d: %w", userID, cardID, err)
	}
	return &p, nil
}

func (r *ProgressRepository) Apply(ctx context.Context, userID, cardID int64, now time.Time, fn func(models.CardProgress) models.CardProgress) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress-repo")

	var updated models.CardProgress
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO card_progress (user_id, card_id, level, next_review)
			VALUES (?, ?, 0, ?)`,
			userID, cardID, now.UTC())
		if err != nil {
			return fmt.Errorf("init progress for user %d card %d: %w", userID, cardID, err)
		}

		var p models.CardProgress
		err = tx.QueryRowContext(ctx, `
			SELECT id, user_id, card_id, level, next_review, correct_count, wrong_count
			FROM card_progress WHERE user_id = ? AND card_id = ?`,
			userID, cardID).
			Scan(&p.ID, &p.UserID, &p.CardID, &p.Level, &p.NextReview, &p.CorrectCount, &p.WrongCount)
		if err != nil {
			return fmt.Errorf("read progress for user %d card %d: %w", userID, cardID, err)
		}

		updated = fn(p)
		updated.ID = p.ID
		updated.UserID = p.UserID
		updated.CardID = p.CardID

		_, err = tx.ExecContext(ctx, `
			UPDATE card_progress
			SET level = ?, next_review = ?, correct_count = ?, wrong_count = ?
			WHERE id = ?`,
			updated.Level, updated.NextReview.UTC(), updated.CorrectCount, updated.WrongCount, p.ID)
		if err != nil {
			return fmt.Errorf("write progress for user %d card %d: %w", userID, cardID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("progress user=%d card=%d level=%d next=%s", userID, cardID, updated.Level, updated.NextReview.Format(time.RFC3339))
	return &updated, nil
}

func (r *ProgressRepository) DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.DueCard, error) {
	q := builder.
		Select("c.id", "c.deck_id", "c.question", "c.answer", "c.difficulty",
			"c.created_at", "c.updated_at", "p.level").
		From("card_progress p").
		Join("cards c ON c.id = p.card_id").
		Where(sq.Eq{"p.user_id": userID, "c.deck_id": deckID}).
		Where(sq.LtOrEq{"p.next_review": now.UTC()}).
		OrderBy("p.level ASC", "c.id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due cards query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("due cards for user %d deck %d: %w", userID, deckID, err)
	}
	defer rows.Close()

	var due []models.DueCard
	for rows.Next() {
		var d models.DueCard
		if err := rows.Scan(&d.ID, &d.DeckID, &d.Question, &d.Answer, &d.Difficulty, &d.CreatedAt, &d.UpdatedAt, &d.Level); err != nil {
			return nil, fmt.Errorf("scan due card: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func (r *ProgressRepository) DueCount(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM card_progress
		WHERE user_id = ? AND next_review <= ?`,
		userID, now.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("due count for user %d: %w", userID, err)
	}
	return n, nil
}

// DeckStats partitions the deck: mastered (level >= 4), learning
// (level 1..3), review (level 0 or never studied).
func (r *ProgressRepository) DeckStats(ctx context.Context, userID, deckID int64) (*models.DeckStats, error) {
	var s models.DeckStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN p.level >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN p.level BETWEEN 1 AND ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN p.level = 0 OR p.id IS NULL THEN 1 ELSE 0 END), 0)
		FROM cards c
		LEFT JOIN card_progress p ON p.card_id = c.id AND p.user_id = ?
		WHERE c.deck_id = ?`,
		srs.MasteredLevel, srs.MasteredLevel-1, userID, deckID).
		Scan(&s.Total, &s.Mastered, &s.Learning, &s.Review)
	if err != nil {
		return nil, fmt.Errorf("deck stats for user %d deck %d: %w", userID, deckID, err)
	}
	if s.Total > 0 {
		s.Progress = int(math.Round(float64(s.Mastered) / float64(s.Total) * 100))
	}
	return &s, nil
}

func (r *ProgressRepository) MasteryCounts(ctx context.Context, userID int64) (int, int, error) {
	var mastered, learning int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN level >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN level < ? THEN 1 ELSE 0 END), 0)
		FROM card_progress WHERE user_id = ?`,
		srs.MasteredLevel, srs.MasteredLevel, userID).
		Scan(&mastered, &learning)
	if err != nil {
		return 0, 0, fmt.Errorf("mastery counts for user %d: %w", userID, err)
	}
	return mastered, learning, nil
}
