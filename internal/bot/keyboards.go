package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/study"
)

func deckListKeyboard(decks []models.Deck) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(decks)+1)
	for _, d := range decks {
		label := fmt.Sprintf("%s (%d cards)", d.Name, d.CardCount)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("deck:%d", d.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("New deck", "newdeck"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deckMenuKeyboard(deckID int64, aiEnabled bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Study", fmt.Sprintf("study:%d", deckID)),
			tgbotapi.NewInlineKeyboardButtonData("Stats", fmt.Sprintf("deckstats:%d", deckID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add cards", fmt.Sprintf("addcards:%d", deckID)),
			tgbotapi.NewInlineKeyboardButtonData("Delete deck", fmt.Sprintf("deldeck:%d", deckID)),
		),
	}
	if aiEnabled {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Generate cards (AI)", fmt.Sprintf("generate:%d", deckID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func modeKeyboard(deckID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Flashcards", fmt.Sprintf("mode:flashcard:%d", deckID)),
			tgbotapi.NewInlineKeyboardButtonData("Write", fmt.Sprintf("mode:write:%d", deckID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Quiz", fmt.Sprintf("mode:quiz:%d", deckID)),
			tgbotapi.NewInlineKeyboardButtonData("Mixed", fmt.Sprintf("mode:mixed:%d", deckID)),
		),
	)
}

func flipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Show answer", "flip"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Stop session", "stop"),
		),
	)
}

func ratingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Again", "rate:again"),
			tgbotapi.NewInlineKeyboardButtonData("Hard", "rate:hard"),
			tgbotapi.NewInlineKeyboardButtonData("Good", "rate:good"),
			tgbotapi.NewInlineKeyboardButtonData("Easy", "rate:easy"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Stop session", "stop"),
		),
	)
}

func quizKeyboard(options []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for i, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, fmt.Sprintf("quiz:%d", i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Stop session", "stop"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func writeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Skip", "skip"),
			tgbotapi.NewInlineKeyboardButtonData("Stop session", "stop"),
		),
	)
}

func settingsKeyboard(settings models.UserSettings) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.NewInlineKeyboardButtonData("Turn reminders on", "set:notify:on")
	if settings.Notifications {
		toggle = tgbotapi.NewInlineKeyboardButtonData("Turn reminders off", "set:notify:off")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(toggle),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("10 cards", "set:limit:10"),
			tgbotapi.NewInlineKeyboardButtonData("20 cards", "set:limit:20"),
			tgbotapi.NewInlineKeyboardButtonData("50 cards", "set:limit:50"),
		),
	)
}

func turnKeyboard(turn study.Turn) tgbotapi.InlineKeyboardMarkup {
	switch turn.Mode {
	case study.ModeQuiz:
		return quizKeyboard(turn.Options)
	case study.ModeWrite:
		return writeKeyboard()
	default:
		if turn.Flipped {
			return ratingKeyboard()
		}
		return flipKeyboard()
	}
}
