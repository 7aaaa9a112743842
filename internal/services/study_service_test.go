package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/study"
	"github.com/artem/quizbot/internal/testutil"
	"github.com/artem/quizbot/internal/testutil/mocks"
)

type studyFixture struct {
	decks    *mocks.DeckRepository
	cards    *mocks.CardRepository
	progress *mocks.ProgressRepository
	stats    *mocks.StatsRepository
	gami     *mocks.GamificationRepository
	svc      *StudyService
}

func newStudyFixture() *studyFixture {
	f := &studyFixture{
		decks:    new(mocks.DeckRepository),
		cards:    new(mocks.CardRepository),
		progress: new(mocks.ProgressRepository),
		stats:    new(mocks.StatsRepository),
		gami:     new(mocks.GamificationRepository),
	}
	scheduler := NewSchedulerService(f.progress)
	gamification := NewGamificationService(f.gami, f.progress)
	f.svc = NewStudyService(f.decks, f.cards, scheduler, f.stats, gamification, 20)
	return f
}

// stubDeck wires the happy path for a deck with the given cards.
func (f *studyFixture) stubDeck(userID, deckID int64, cards []models.Card) {
	f.decks.On("GetByID", mock.Anything, deckID).Return(&models.Deck{ID: deckID, UserID: userID, Name: "test"}, nil)
	f.cards.On("ListByDeck", mock.Anything, deckID).Return(cards, nil)
	f.progress.On("Init", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil)
}

func (f *studyFixture) stubScoring(userID int64) {
	f.progress.On("Apply", mock.Anything, userID, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.CardProgress{UserID: userID}, nil)
	f.gami.On("Get", mock.Anything, userID).Return(&models.Gamification{UserID: userID}, nil)
	f.gami.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.stats.On("RecordSession", mock.Anything, userID, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func deckCards(deckID int64, n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			ID:         int64(100 + i),
			DeckID:     deckID,
			Question:   "q",
			Answer:     string(rune('a' + i)),
			Difficulty: 1,
		}
	}
	return cards
}

func TestStudyService_StartSessionValidatesMode(t *testing.T) {
	f := newStudyFixture()

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.Mode("cramming"), 0)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestStudyService_StartSessionEmptyDeck(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, nil)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	assert.True(t, apperrors.IsEmptyDeck(err))
}

func TestStudyService_StartSessionQuizNeedsTwoCards(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 1))

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeQuiz, 0)
	assert.True(t, apperrors.IsInsufficientCards(err))

	// The same single-card deck is fine in flashcard mode.
	_, turn, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Total)
}

func TestStudyService_StartSessionForeignDeck(t *testing.T) {
	f := newStudyFixture()
	f.decks.On("GetByID", mock.Anything, int64(2)).Return(&models.Deck{ID: 2, UserID: 99}, nil)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStudyService_SubmitWithoutSession(t *testing.T) {
	f := newStudyFixture()

	_, err := f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	assert.True(t, apperrors.IsNoActiveSession(err))

	_, err = f.svc.CurrentTurn(1)
	assert.True(t, apperrors.IsNoActiveSession(err))
}

func TestStudyService_FlashcardSessionEndToEnd(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 2))
	f.stubScoring(1)

	_, turn, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, turn.Total)
	assert.Equal(t, 0, turn.Index)

	// First card: flip, rate good. Daily bonus lands with the first
	// correct answer of the day.
	_, err = f.svc.Flip(1)
	require.NoError(t, err)
	report, err := f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	require.NoError(t, err)
	assert.Equal(t, PointsCorrectFlashcard+PointsDailyStudy, report.Points)
	require.NotNil(t, report.Next)
	assert.Equal(t, 1, report.Next.Index)
	assert.False(t, report.Next.Flipped)

	// Second card: flip, rate again. This ends the session.
	_, err = f.svc.Flip(1)
	require.NoError(t, err)
	report, err = f.svc.SubmitRating(testutil.Ctx(), 1, study.RateAgain)
	require.NoError(t, err)
	assert.Zero(t, report.Points)
	assert.Nil(t, report.Next)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 1, report.Summary.Correct)
	assert.Equal(t, 1, report.Summary.Wrong)
	assert.Equal(t, 50, report.Summary.Accuracy)
	assert.False(t, report.Summary.Perfect)

	f.stats.AssertCalled(t, "RecordSession", mock.Anything, int64(1), int64(2), 2, 1, 2, mock.Anything)
	f.progress.AssertNumberOfCalls(t, "Apply", 2)

	_, err = f.svc.CurrentTurn(1)
	assert.True(t, apperrors.IsNoActiveSession(err))
}

func TestStudyService_RatingRequiresFlip(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 1))

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)

	_, err = f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	require.Error(t, err)

	// The turn is still pending.
	turn, err := f.svc.CurrentTurn(1)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Index)
}

func TestStudyService_StorageFailureLeavesTurnReplayable(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 1))
	f.gami.On("Get", mock.Anything, int64(1)).Return(&models.Gamification{UserID: 1}, nil)
	f.gami.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.stats.On("RecordSession", mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.progress.On("Apply", mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database is locked")).Once()
	f.progress.On("Apply", mock.Anything, int64(1), mock.Anything, mock.Anything, mock.Anything).
		Return(&models.CardProgress{UserID: 1}, nil)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	_, err = f.svc.Flip(1)
	require.NoError(t, err)

	_, err = f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	require.Error(t, err)

	// The card is still flipped and current, so the same rating can be
	// retried after the storage hiccup.
	turn, err := f.svc.CurrentTurn(1)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Index)
	assert.True(t, turn.Flipped)

	report, err := f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 1, report.Summary.Correct)
}

func TestStudyService_PerfectSessionPaysBonus(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 3))
	f.stubScoring(1)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)

	var report *TurnReport
	for i := 0; i < 3; i++ {
		_, err = f.svc.Flip(1)
		require.NoError(t, err)
		report, err = f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
		require.NoError(t, err)
	}

	require.NotNil(t, report.Summary)
	assert.True(t, report.Summary.Perfect)

	// 3 correct flashcards + daily bonus + perfect bonus.
	g, err := f.gami.Get(testutil.Ctx(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3*PointsCorrectFlashcard+PointsDailyStudy+PointsPerfectSession, g.TotalPoints)
}

func TestStudyService_WriteAlmostDoesNotTouchStorage(t *testing.T) {
	f := newStudyFixture()
	cards := []models.Card{{ID: 100, DeckID: 2, Question: "capital of France", Answer: "Paris", Difficulty: 1}}
	f.stubDeck(1, 2, cards)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeWrite, 0)
	require.NoError(t, err)

	// "pairs" sits in the ambiguous band: no scheduler write, no
	// advance, retry or skip offered.
	report, err := f.svc.SubmitAnswer(testutil.Ctx(), 1, "pairs")
	require.NoError(t, err)
	assert.Equal(t, study.VerdictAlmost, report.Result.Verdict)
	require.NotNil(t, report.Next)
	assert.Equal(t, 0, report.Next.Index)
	f.progress.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Skipping ends the session with nothing judged, so no history row.
	report, err = f.svc.SkipCard(testutil.Ctx(), 1)
	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	assert.Zero(t, report.Summary.Total)
	f.stats.AssertNotCalled(t, "RecordSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyService_StopSessionEarly(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 3))
	f.stubScoring(1)

	_, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	_, err = f.svc.Flip(1)
	require.NoError(t, err)
	_, err = f.svc.SubmitRating(testutil.Ctx(), 1, study.RateGood)
	require.NoError(t, err)

	summary, err := f.svc.StopSession(testutil.Ctx(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 100, summary.Accuracy)
	assert.False(t, summary.Perfect, "perfect needs at least 3 judged turns")

	f.stats.AssertCalled(t, "RecordSession", mock.Anything, int64(1), int64(2), 1, 1, 1, mock.Anything)
	_, err = f.svc.CurrentTurn(1)
	assert.True(t, apperrors.IsNoActiveSession(err))
}

func TestStudyService_NewStartReplacesSession(t *testing.T) {
	f := newStudyFixture()
	f.stubDeck(1, 2, deckCards(2, 2))

	first, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	second, _, err := f.svc.StartSession(testutil.Ctx(), 1, 2, study.ModeFlashcard, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	turn, err := f.svc.CurrentTurn(1)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Index)
}
