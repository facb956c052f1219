package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleFeedbackCommand(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	b.mu.Lock()
	b.feedbackWaiting[msg.From.ID] = struct{}{}
	b.mu.Unlock()

	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Напишите сообщение с отзывом 📝"))
}

// handleFeedbackText stores the next plain message from a user who ran
// /feedback. Other plain messages are ignored.
func (b *Bot) handleFeedbackText(msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}

	b.mu.Lock()
	_, waiting := b.feedbackWaiting[msg.From.ID]
	if waiting {
		delete(b.feedbackWaiting, msg.From.ID)
	}
	b.mu.Unlock()
	if !waiting {
		return
	}

	if _, err := b.upsertUser(msg.From); err != nil {
		b.log.Error("Failed to upsert user", zap.Error(err))
	}
	if err := b.store.CreateFeedback(msg.From.ID, msg.Text); err != nil {
		b.log.Error("Failed to save feedback", zap.Error(err))
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Спасибо за отзыв! 🤲"))
}

// handleBroadcast sends an admin's message to every known user, paced to
// stay under the platform's rate limit.
func (b *Bot) handleBroadcast(msg *tgbotapi.Message) {
	if msg.From == nil || !b.isAdmin(msg.From.ID) {
		return
	}

	text := msg.CommandArguments()
	if text == "" {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Использование: /broadcast <сообщение>"))
		return
	}

	users, err := b.store.GetAllUsers()
	if err != nil {
		b.log.Error("Failed to list users for broadcast", zap.Error(err))
		return
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("📡 Рассылка начата для %d пользователей...", len(users))))

	sent, failed := 0, 0
	for i, user := range users {
		out := tgbotapi.NewMessage(user.TelegramID, text)
		out.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(out); err != nil {
			failed++
		} else {
			sent++
		}
		// Rate limit: 30 msgs/sec
		if (i+1)%30 == 0 {
			time.Sleep(time.Second)
		}
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("✅ Рассылка завершена!\n\n📨 Отправлено: %d\n❌ Ошибок: %d", sent, failed)))
}

// handleSendReminders lets an admin trigger the day-before fan-out.
func (b *Bot) handleSendReminders(msg *tgbotapi.Message) {
	if msg.From == nil || !b.isAdmin(msg.From.ID) {
		return
	}
	if err := b.SendReminders(); err != nil {
		b.log.Error("Reminder fan-out failed", zap.Error(err))
		return
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, "✅ Напоминания отправлены"))
}
