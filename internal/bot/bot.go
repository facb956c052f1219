// Package bot is the Telegram worker. It mirrors the API's reads and
// writes against the same store, and is the only component that pushes
// outbound notifications back to the platform.
package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/config"
)

// Bot wraps the Telegram client with the application's update handling.
type Bot struct {
	api   *tgbotapi.BotAPI
	store *store.Store
	cfg   config.BotConfig
	log   *zap.Logger

	mu              sync.Mutex
	feedbackWaiting map[int64]struct{}
}

// New connects to the Telegram API with the configured token.
func New(cfg config.BotConfig, st *store.Store, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:             api,
		store:           st,
		cfg:             cfg,
		log:             log,
		feedbackWaiting: make(map[int64]struct{}),
	}, nil
}

// Run starts the long-polling loop and blocks until the update channel
// closes.
func (b *Bot) Run() {
	// Drop any webhook so polling receives updates.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		b.log.Warn("Failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	b.log.Info("Bot started in polling mode", zap.String("username", b.api.Self.UserName))

	for update := range b.api.GetUpdatesChan(u) {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.InlineQuery != nil:
		b.handleInlineQuery(update.InlineQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "feedback":
		b.handleFeedbackCommand(msg)
	case "broadcast":
		b.handleBroadcast(msg)
	case "send_reminders":
		b.handleSendReminders(msg)
	default:
		b.handleFeedbackText(msg)
	}
}

func (b *Bot) isAdmin(telegramID int64) bool {
	for _, id := range b.cfg.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// upsertUser refreshes the sender's profile row from the message context.
func (b *Bot) upsertUser(from *tgbotapi.User) (*model.User, error) {
	tg := store.TelegramUser{ID: from.ID}
	if from.UserName != "" {
		username := from.UserName
		tg.Username = &username
	}
	if from.FirstName != "" {
		firstName := from.FirstName
		tg.FirstName = &firstName
	}
	if from.LastName != "" {
		lastName := from.LastName
		tg.LastName = &lastName
	}
	user, err := b.store.GetOrCreateUser(tg)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// send pushes a message and logs failures without retrying.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("Failed to send message", zap.Error(err))
	}
}
