// Package bot is the Telegram transport: command routing, inline
// keyboards and free-text handling for study sessions and deck editing.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artem/quizbot/internal/ai"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/worker"
)

// chat input states for multi-step flows.
const (
	stateIdle          = ""
	stateNewDeckName   = "new_deck_name"
	stateAddingCards   = "adding_cards"
	stateGenerateTopic = "generate_topic"
)

type chatState struct {
	state  string
	deckID int64
}

type Bot struct {
	api     *tgbotapi.BotAPI
	users   repository.UserRepository
	decks   *services.DeckService
	study   *services.StudyService
	stats   *services.StatsService
	ai      *ai.Client
	imports *worker.Pool
	log     *logger.Logger

	mu     sync.Mutex
	states map[int64]chatState
}

func New(
	token string,
	users repository.UserRepository,
	decks *services.DeckService,
	study *services.StudyService,
	stats *services.StatsService,
	aiClient *ai.Client,
	imports *worker.Pool,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	return &Bot{
		api:     api,
		users:   users,
		decks:   decks,
		study:   study,
		stats:   stats,
		ai:      aiClient,
		imports: imports,
		log:     logger.Default().WithPrefix("bot"),
		states:  make(map[int64]chatState),
	}, nil
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("bot authorized as @%s", b.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("panic handling update %d: %v", update.UpdateID, rec)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) upsertUser(ctx context.Context, from *tgbotapi.User) {
	if from == nil {
		return
	}
	user := &models.User{ID: from.ID, Username: from.UserName}
	if err := b.users.Upsert(ctx, user); err != nil {
		b.log.Warn("upsert user %d: %v", from.ID, err)
	}
}

// NotifyDue implements reminder.Notifier.
func (b *Bot) NotifyDue(ctx context.Context, user models.User, due int) error {
	text := fmt.Sprintf("You have %d card(s) due for review. Use /decks to start studying!", due)
	return b.send(user.ID, text)
}

func (b *Bot) send(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		b.log.Warn("send to chat %d: %v", chatID, err)
	}
	return err
}

func (b *Bot) sendKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send keyboard to chat %d: %v", chatID, err)
	}
}

func (b *Bot) setState(chatID int64, s chatState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.state == stateIdle {
		delete(b.states, chatID)
		return
	}
	b.states[chatID] = s
}

func (b *Bot) getState(chatID int64) chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[chatID]
}
