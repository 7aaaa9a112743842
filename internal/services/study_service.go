package services

import (
	"context"
	"sync"
	"time"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/study"
)

// TurnReport is what a transport renders after one submitted input.
type TurnReport struct {
	Result  study.TurnResult
	Points  int            // points awarded for this input
	Next    *study.Turn    // next presentation, nil when the session ended
	Summary *study.Summary // set when this input ended the session
}

// StudyService drives study sessions: it prepares the working set, owns
// the per-user session store, persists scheduler updates and awards
// points. Session mutation is serialized by a single mutex; sessions are
// short-lived and per-user traffic is effectively sequential.
type StudyService struct {
	mu sync.Mutex

	store        *study.Store
	decks        repository.DeckRepository
	cards        repository.CardRepository
	scheduler    *SchedulerService
	stats        repository.StatsRepository
	gamification *GamificationService
	defaultLimit int
	now          func() time.Time
}

func NewStudyService(
	decks repository.DeckRepository,
	cards repository.CardRepository,
	scheduler *SchedulerService,
	stats repository.StatsRepository,
	gamification *GamificationService,
	defaultLimit int,
) *StudyService {
	if defaultLimit <= 0 {
		defaultLimit = study.DefaultSessionLimit
	}
	return &StudyService{
		store:        study.NewStore(),
		decks:        decks,
		cards:        cards,
		scheduler:    scheduler,
		stats:        stats,
		gamification: gamification,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// StartSession opens a new session over deckID in the given mode,
// replacing any session the user already had. The first turn is returned
// ready to present.
func (s *StudyService) StartSession(ctx context.Context, userID, deckID int64, mode study.Mode, limit int) (*study.Session, study.Turn, error) {
	log := logger.FromContext(ctx).WithPrefix("study")

	if !mode.Valid() {
		return nil, study.Turn{}, errors.NewValidationError("mode", "must be flashcard, write, quiz or mixed")
	}

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, study.Turn{}, err
	}
	if deck.UserID != userID {
		return nil, study.Turn{}, errors.NewNotFoundError("deck", deckID)
	}

	all, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, study.Turn{}, err
	}
	if len(all) == 0 {
		return nil, study.Turn{}, errors.NewEmptyDeckError(deckID)
	}
	if mode == study.ModeQuiz && len(all) < 2 {
		return nil, study.Turn{}, errors.NewInsufficientCardsError(deckID, len(all))
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	prepared := study.PrepareCards(all, mode, limit)

	ids := make([]int64, len(prepared))
	for i := range prepared {
		ids[i] = prepared[i].ID
	}
	if err := s.scheduler.InitCards(ctx, userID, ids); err != nil {
		return nil, study.Turn{}, err
	}

	sess := study.NewSession(userID, deckID, mode, prepared)

	s.mu.Lock()
	s.store.Put(sess)
	turn, _ := sess.Turn()
	s.mu.Unlock()

	log.Info("user %d started %s session on deck %d with %d cards", userID, mode, deckID, sess.Size())
	return sess, turn, nil
}

// CheckHandle verifies that handle names the user's live session. A
// stale handle from a replaced or finished session reads as no session.
func (s *StudyService) CheckHandle(userID int64, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.GetByHandle(userID, handle) == nil {
		return errors.NewNoActiveSessionError(userID)
	}
	return nil
}

// CurrentTurn returns the user's pending presentation state.
func (s *StudyService) CurrentTurn(userID int64) (study.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.store.Get(userID)
	if sess == nil {
		return study.Turn{}, errors.NewNoActiveSessionError(userID)
	}
	turn, ok := sess.Turn()
	if !ok {
		return study.Turn{}, errors.NewNoActiveSessionError(userID)
	}
	return turn, nil
}

// Flip toggles the current flashcard between its sides.
func (s *StudyService) Flip(userID int64) (study.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.store.Get(userID)
	if sess == nil {
		return study.Turn{}, errors.NewNoActiveSessionError(userID)
	}
	if err := sess.Flip(); err != nil {
		return study.Turn{}, err
	}
	turn, _ := sess.Turn()
	return turn, nil
}

// SubmitRating resolves a flashcard turn.
func (s *StudyService) SubmitRating(ctx context.Context, userID int64, rating study.Rating) (*TurnReport, error) {
	return s.submit(ctx, userID, func(sess *study.Session) (study.TurnResult, error) {
		return sess.EvaluateRating(rating)
	})
}

// SubmitAnswer scores a free-text write answer.
func (s *StudyService) SubmitAnswer(ctx context.Context, userID int64, text string) (*TurnReport, error) {
	return s.submit(ctx, userID, func(sess *study.Session) (study.TurnResult, error) {
		return sess.EvaluateAnswer(text)
	})
}

// SubmitChoice resolves a quiz turn by option index.
func (s *StudyService) SubmitChoice(ctx context.Context, userID int64, option int) (*TurnReport, error) {
	return s.submit(ctx, userID, func(sess *study.Session) (study.TurnResult, error) {
		return sess.EvaluateChoice(option)
	})
}

// SkipCard moves past the current write card without judging it.
func (s *StudyService) SkipCard(ctx context.Context, userID int64) (*TurnReport, error) {
	return s.submit(ctx, userID, func(sess *study.Session) (study.TurnResult, error) {
		return sess.EvaluateSkip()
	})
}

// submit runs one evaluate/persist/apply cycle. The durable scheduler
// write happens before the session mutates, so a storage failure leaves
// the turn replayable. Gamification failures are logged and swallowed.
func (s *StudyService) submit(ctx context.Context, userID int64, eval func(*study.Session) (study.TurnResult, error)) (*TurnReport, error) {
	log := logger.FromContext(ctx).WithPrefix("study")

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.store.Get(userID)
	if sess == nil {
		return nil, errors.NewNoActiveSessionError(userID)
	}

	res, err := eval(sess)
	if err != nil {
		return nil, err
	}

	if res.HasOutcome {
		if _, err := s.scheduler.RecordOutcome(ctx, userID, res.CardID, res.Outcome); err != nil {
			return nil, err
		}
	}

	report := &TurnReport{Result: res}
	if res.Counted && res.Correct {
		if _, err := s.gamification.AwardCorrect(ctx, userID, res.Mode); err != nil {
			log.Warn("award points for user %d: %v", userID, err)
		} else {
			report.Points = PointsForCorrect(res.Mode)
		}
		if bonus, err := s.gamification.RecordStudyDay(ctx, userID); err != nil {
			log.Warn("update streak for user %d: %v", userID, err)
		} else {
			report.Points += bonus
		}
	}

	sess.Apply(res)

	if sess.Finished() {
		summary := s.finish(ctx, sess)
		report.Summary = &summary
		return report, nil
	}

	turn, _ := sess.Turn()
	report.Next = &turn
	return report, nil
}

// StopSession ends the user's session early and returns its summary.
func (s *StudyService) StopSession(ctx context.Context, userID int64) (*study.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.store.Get(userID)
	if sess == nil {
		return nil, errors.NewNoActiveSessionError(userID)
	}
	summary := s.finish(ctx, sess)
	return &summary, nil
}

// finish records the session's history row, pays the perfect bonus and
// discards the session. History and bonus failures are logged, not
// returned: the session is over either way.
func (s *StudyService) finish(ctx context.Context, sess *study.Session) study.Summary {
	log := logger.FromContext(ctx).WithPrefix("study")

	summary := sess.Summarize()
	if summary.Total > 0 {
		err := s.stats.RecordSession(ctx, sess.UserID, sess.DeckID, summary.Total, summary.Correct, summary.Total, s.now())
		if err != nil {
			log.Error("record session history for user %d: %v", sess.UserID, err)
		}
		if summary.Perfect {
			if _, err := s.gamification.AwardPerfectSession(ctx, sess.UserID); err != nil {
				log.Warn("award perfect bonus for user %d: %v", sess.UserID, err)
			}
		}
	}
	s.store.Remove(sess.UserID)

	log.Info("user %d finished session on deck %d: %d/%d (%d%%)",
		sess.UserID, sess.DeckID, summary.Correct, summary.Total, summary.Accuracy)
	return summary
}
