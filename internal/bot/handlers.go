package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artem/quizbot/internal/errors"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/study"
	"github.com/artem/quizbot/internal/worker"
)

const helpText = `Commands:
/decks - list your decks
/newdeck - create a deck
/stats - your study statistics
/settings - reminders and session size
/stop - stop the current session
/help - this message

During a write exercise just type your answer.
When adding cards, send one card per line as "question | answer"
and finish with "done".`

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	b.upsertUser(ctx, msg.From)
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		b.setState(chatID, chatState{})
		switch msg.Command() {
		case "start":
			b.send(chatID, "Welcome! I help you learn with flashcards and spaced repetition.\n\n"+helpText)
		case "help":
			b.send(chatID, helpText)
		case "decks", "study":
			b.showDecks(ctx, chatID, userID)
		case "newdeck":
			b.setState(chatID, chatState{state: stateNewDeckName})
			b.send(chatID, "Send me a name for the new deck.")
		case "stats":
			b.showStats(ctx, chatID, userID)
		case "settings":
			b.showSettings(ctx, chatID, userID)
		case "stop":
			b.stopSession(ctx, chatID, userID)
		default:
			b.send(chatID, "Unknown command. "+helpText)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch st := b.getState(chatID); st.state {
	case stateNewDeckName:
		b.createDeck(ctx, chatID, userID, text)
	case stateAddingCards:
		b.addCardsFromText(ctx, chatID, userID, st.deckID, text)
	case stateGenerateTopic:
		b.generateCards(ctx, chatID, userID, st.deckID, text)
	default:
		b.submitWriteAnswer(ctx, chatID, userID, text)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	b.upsertUser(ctx, cb.From)
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("answer callback: %v", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	action, arg, _ := strings.Cut(cb.Data, ":")
	switch action {
	case "newdeck":
		b.setState(chatID, chatState{state: stateNewDeckName})
		b.send(chatID, "Send me a name for the new deck.")
	case "deck":
		b.showDeckMenu(ctx, chatID, userID, parseID(arg))
	case "study":
		b.sendKeyboard(chatID, "Pick a study mode:", modeKeyboard(parseID(arg)))
	case "mode":
		modeStr, deckStr, _ := strings.Cut(arg, ":")
		b.startSession(ctx, chatID, userID, parseID(deckStr), study.Mode(modeStr))
	case "flip":
		b.flipCard(chatID, userID)
	case "rate":
		b.report(ctx, chatID, func() (*services.TurnReport, error) {
			return b.study.SubmitRating(ctx, userID, study.Rating(arg))
		})
	case "quiz":
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return
		}
		b.report(ctx, chatID, func() (*services.TurnReport, error) {
			return b.study.SubmitChoice(ctx, userID, idx)
		})
	case "skip":
		b.report(ctx, chatID, func() (*services.TurnReport, error) {
			return b.study.SkipCard(ctx, userID)
		})
	case "stop":
		b.stopSession(ctx, chatID, userID)
	case "deckstats":
		b.showDeckStats(ctx, chatID, userID, parseID(arg))
	case "addcards":
		b.setState(chatID, chatState{state: stateAddingCards, deckID: parseID(arg)})
		b.send(chatID, "Send cards one per line as \"question | answer\". Send \"done\" when finished.")
	case "generate":
		b.setState(chatID, chatState{state: stateGenerateTopic, deckID: parseID(arg)})
		b.send(chatID, "What topic should I generate cards about?")
	case "deldeck":
		b.deleteDeck(ctx, chatID, userID, parseID(arg))
	case "set":
		b.applySetting(ctx, chatID, userID, arg)
	}
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func (b *Bot) showDecks(ctx context.Context, chatID, userID int64) {
	decks, err := b.decks.ListDecks(ctx, userID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	if len(decks) == 0 {
		b.setState(chatID, chatState{state: stateNewDeckName})
		b.send(chatID, "You have no decks yet. Send me a name to create your first one.")
		return
	}
	b.sendKeyboard(chatID, "Your decks:", deckListKeyboard(decks))
}

func (b *Bot) showDeckMenu(ctx context.Context, chatID, userID, deckID int64) {
	deck, err := b.decks.GetDeck(ctx, userID, deckID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	text := fmt.Sprintf("%s\n%d cards", deck.Name, deck.CardCount)
	if deck.Description != "" {
		text = fmt.Sprintf("%s\n%s\n%d cards", deck.Name, deck.Description, deck.CardCount)
	}
	b.sendKeyboard(chatID, text, deckMenuKeyboard(deckID, b.ai.Enabled()))
}

func (b *Bot) createDeck(ctx context.Context, chatID, userID int64, name string) {
	deck, err := b.decks.CreateDeck(ctx, userID, name, "")
	if err != nil {
		b.fail(chatID, err)
		return
	}
	b.setState(chatID, chatState{state: stateAddingCards, deckID: deck.ID})
	b.send(chatID, fmt.Sprintf("Deck %q created. Now send cards one per line as \"question | answer\". Send \"done\" when finished.", deck.Name))
}

func (b *Bot) addCardsFromText(ctx context.Context, chatID, userID, deckID int64, text string) {
	if strings.EqualFold(text, "done") {
		b.setState(chatID, chatState{})
		b.showDeckMenu(ctx, chatID, userID, deckID)
		return
	}

	var cards []models.Card
	var bad int
	for _, line := range strings.Split(text, "\n") {
		q, a, found := strings.Cut(line, "|")
		q, a = strings.TrimSpace(q), strings.TrimSpace(a)
		if !found || q == "" || a == "" {
			if strings.TrimSpace(line) != "" {
				bad++
			}
			continue
		}
		cards = append(cards, models.Card{Question: q, Answer: a, Difficulty: 1})
	}

	if len(cards) == 0 {
		b.send(chatID, "I could not read any card from that. Use \"question | answer\", one per line.")
		return
	}
	inserted, err := b.decks.AddCards(ctx, userID, deckID, cards)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	reply := fmt.Sprintf("Added %d card(s).", inserted)
	if bad > 0 {
		reply += fmt.Sprintf(" Skipped %d malformed line(s).", bad)
	}
	b.send(chatID, reply+" Keep sending cards or reply \"done\".")
}

func (b *Bot) generateCards(ctx context.Context, chatID, userID, deckID int64, topic string) {
	b.setState(chatID, chatState{})
	if !b.ai.Enabled() {
		b.send(chatID, "Card generation is not configured on this bot.")
		return
	}

	job := worker.JobFunc{
		JobName: fmt.Sprintf("generate-cards deck=%d", deckID),
		Fn: func(jobCtx context.Context) error {
			cards, err := b.ai.GenerateQuizCards(jobCtx, topic, 5)
			if err != nil {
				b.send(chatID, "Card generation failed, please try again later.")
				return err
			}
			inserted, err := b.decks.AddCards(jobCtx, userID, deckID, cards)
			if err != nil {
				b.send(chatID, "Could not save the generated cards.")
				return err
			}
			b.send(chatID, fmt.Sprintf("Generated %d card(s) about %q.", inserted, topic))
			return nil
		},
	}
	if err := b.imports.Submit(job); err != nil {
		b.send(chatID, "I am too busy right now, please try again in a moment.")
		return
	}
	b.send(chatID, fmt.Sprintf("Generating cards about %q, this can take a few seconds...", topic))
}

func (b *Bot) deleteDeck(ctx context.Context, chatID, userID, deckID int64) {
	if err := b.decks.DeleteDeck(ctx, userID, deckID); err != nil {
		b.fail(chatID, err)
		return
	}
	b.send(chatID, "Deck deleted.")
	b.showDecks(ctx, chatID, userID)
}

func (b *Bot) startSession(ctx context.Context, chatID, userID, deckID int64, mode study.Mode) {
	limit := 0
	if settings, err := b.users.Settings(ctx, userID); err == nil {
		limit = settings.CardsPerSession
	}
	_, turn, err := b.study.StartSession(ctx, userID, deckID, mode, limit)
	if err != nil {
		switch {
		case errors.IsEmptyDeck(err):
			b.send(chatID, "That deck has no cards yet. Add some first.")
		case errors.IsInsufficientCards(err):
			b.send(chatID, "Quiz mode needs at least 2 cards in the deck.")
		default:
			b.fail(chatID, err)
		}
		return
	}
	b.renderTurn(chatID, turn)
}

func (b *Bot) flipCard(chatID, userID int64) {
	turn, err := b.study.Flip(userID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	b.renderTurn(chatID, turn)
}

func (b *Bot) submitWriteAnswer(ctx context.Context, chatID, userID int64, text string) {
	turn, err := b.study.CurrentTurn(userID)
	if err != nil || turn.Mode != study.ModeWrite {
		// Not in a write exercise; free text outside a flow is ignored.
		return
	}
	b.report(ctx, chatID, func() (*services.TurnReport, error) {
		return b.study.SubmitAnswer(ctx, userID, text)
	})
}

func (b *Bot) stopSession(ctx context.Context, chatID, userID int64) {
	summary, err := b.study.StopSession(ctx, userID)
	if err != nil {
		if errors.IsNoActiveSession(err) {
			b.send(chatID, "No study session is running.")
			return
		}
		b.fail(chatID, err)
		return
	}
	b.sendSummary(chatID, *summary)
}

// report runs one study input and renders its feedback, the next card or
// the final summary.
func (b *Bot) report(ctx context.Context, chatID int64, submit func() (*services.TurnReport, error)) {
	rep, err := submit()
	if err != nil {
		if errors.IsNoActiveSession(err) {
			b.send(chatID, "No study session is running. Use /decks to start one.")
			return
		}
		b.fail(chatID, err)
		return
	}

	if text := feedbackText(rep); text != "" {
		b.send(chatID, text)
	}
	switch {
	case rep.Summary != nil:
		b.sendSummary(chatID, *rep.Summary)
	case rep.Next != nil:
		b.renderTurn(chatID, *rep.Next)
	}
}

func feedbackText(rep *services.TurnReport) string {
	res := rep.Result
	switch res.Mode {
	case study.ModeWrite:
		switch res.Verdict {
		case study.VerdictCorrect:
			return withPoints("Correct!", rep.Points)
		case study.VerdictAlmost:
			return fmt.Sprintf("Almost! (%d%% match) Try again or skip.", int(res.Similarity*100))
		case study.VerdictWrong:
			return fmt.Sprintf("Not quite. Hint: %s\nAnswer: %s\nTry typing it once more, or skip.", res.Hint, res.CorrectAnswer)
		case study.VerdictPractice:
			return "Noted, moving on."
		}
		return ""
	case study.ModeQuiz:
		if !res.Counted {
			return "" // skip
		}
		if res.Correct {
			return withPoints("Correct!", rep.Points)
		}
		return fmt.Sprintf("Wrong. The answer was: %s", res.CorrectAnswer)
	default:
		if res.Correct && rep.Points > 0 {
			return withPoints("", rep.Points)
		}
		return ""
	}
}

func withPoints(prefix string, points int) string {
	if points <= 0 {
		return prefix
	}
	if prefix == "" {
		return fmt.Sprintf("+%d points", points)
	}
	return fmt.Sprintf("%s +%d points", prefix, points)
}

func (b *Bot) renderTurn(chatID int64, turn study.Turn) {
	header := fmt.Sprintf("Card %d/%d", turn.Index+1, turn.Total)
	var text string
	switch turn.Mode {
	case study.ModeWrite:
		text = fmt.Sprintf("%s (write)\n\n%s\n\nType your answer.", header, turn.Card.Question)
	case study.ModeQuiz:
		text = fmt.Sprintf("%s (quiz)\n\n%s", header, turn.Card.Question)
	default:
		if turn.Flipped {
			text = fmt.Sprintf("%s\n\n%s\n\n%s\n\nHow well did you know it?", header, turn.Card.Question, turn.Card.Answer)
		} else {
			text = fmt.Sprintf("%s\n\n%s", header, turn.Card.Question)
		}
	}
	b.sendKeyboard(chatID, text, turnKeyboard(turn))
}

func (b *Bot) sendSummary(chatID int64, sum study.Summary) {
	if sum.Total == 0 {
		b.send(chatID, "Session ended. Nothing was scored this time.")
		return
	}
	text := fmt.Sprintf("Session finished!\nCorrect: %d\nWrong: %d\nAccuracy: %d%%", sum.Correct, sum.Wrong, sum.Accuracy)
	if sum.Perfect {
		text += "\n\nPerfect session, bonus points awarded!"
	}
	b.send(chatID, text)
}

func (b *Bot) showStats(ctx context.Context, chatID, userID int64) {
	ov, err := b.stats.UserOverview(ctx, userID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	text := fmt.Sprintf(
		"Your stats\n\nDecks: %d\nCards studied: %d\nAccuracy: %.0f%%\nDue now: %d\n\nPoints: %d\nStreak: %d day(s) (best %d)\nMastered cards: %d\nIn progress: %d",
		ov.Study.DecksCount,
		ov.Study.TotalStudied,
		ov.Study.Accuracy,
		ov.DueNow,
		ov.Gamification.TotalPoints,
		ov.Gamification.CurrentStreak,
		ov.Gamification.MaxStreak,
		ov.Gamification.MasteredCards,
		ov.Gamification.LearningCards,
	)
	if len(ov.Achievements) > 0 {
		text += "\n\nAchievements:"
		for _, a := range ov.Achievements {
			text += fmt.Sprintf("\n- %s (+%d)", a.Name, a.Points)
		}
	}
	b.send(chatID, text)
}

func (b *Bot) showSettings(ctx context.Context, chatID, userID int64) {
	settings, err := b.users.Settings(ctx, userID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	notif := "off"
	if settings.Notifications {
		notif = "on"
	}
	text := fmt.Sprintf(
		"Settings\n\nReminders: %s (around %s)\nCards per session: %d",
		notif, settings.ReminderTime, settings.CardsPerSession,
	)
	b.sendKeyboard(chatID, text, settingsKeyboard(*settings))
}

// applySetting handles "set:..." callbacks from the settings keyboard.
func (b *Bot) applySetting(ctx context.Context, chatID, userID int64, arg string) {
	settings, err := b.users.Settings(ctx, userID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	settings.UserID = userID

	key, value, _ := strings.Cut(arg, ":")
	switch key {
	case "notify":
		settings.Notifications = value == "on"
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return
		}
		settings.CardsPerSession = n
	default:
		return
	}

	if err := b.users.SaveSettings(ctx, settings); err != nil {
		b.fail(chatID, err)
		return
	}
	b.showSettings(ctx, chatID, userID)
}

func (b *Bot) showDeckStats(ctx context.Context, chatID, userID, deckID int64) {
	ov, err := b.stats.DeckOverview(ctx, userID, deckID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	text := fmt.Sprintf(
		"%s\n\nCards: %d\nMastered: %d\nLearning: %d\nTo review: %d\nProgress: %d%%",
		ov.Deck.Name, ov.Cards.Total, ov.Cards.Mastered, ov.Cards.Learning, ov.Cards.Review, ov.Cards.Progress,
	)
	if ov.History != nil {
		text += fmt.Sprintf("\n\nStudied: %d\nCorrect: %d/%d", ov.History.CardsStudied, ov.History.CorrectAnswers, ov.History.TotalAttempts)
	}
	b.send(chatID, text)
}

func (b *Bot) fail(chatID int64, err error) {
	b.log.Error("chat %d: %v", chatID, err)
	if errors.IsNotFound(err) {
		b.send(chatID, "I could not find that, it may have been deleted.")
		return
	}
	b.send(chatID, "Something went wrong, please try again.")
}
