package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
)

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	action, ok := parseRSVPCallback(cb.Data)
	if !ok {
		b.answerCallback(cb.ID, "", false)
		return
	}

	user, err := b.upsertUser(cb.From)
	if err != nil {
		b.log.Error("Failed to upsert user", zap.Error(err))
		b.answerCallback(cb.ID, "Ошибка, попробуй ещё раз", false)
		return
	}

	changed, err := b.store.CreateOrUpdateInvitation(action.EventID, user.ID, action.Status, action.GuestCount)
	if err != nil {
		b.log.Error("Failed to record RSVP", zap.Error(err))
		b.answerCallback(cb.ID, "Ошибка, попробуй ещё раз", false)
		return
	}

	if !changed {
		// Repeat click: acknowledge quietly and skip the host push.
		b.answerCallback(cb.ID, "Уже записано ✓", false)
		return
	}

	statusText := map[string]string{
		model.StatusAccepted: fmt.Sprintf("✅ Отлично! Ты придёшь%s.", guestCountLabel(action.GuestCount)),
		model.StatusDeclined: "❌ Понял, ты не сможешь.",
		model.StatusMaybe:    "🤔 Окей, пока \"может быть\".",
	}
	text, ok := statusText[action.Status]
	if !ok {
		text = "Ответ записан"
	}
	b.answerCallback(cb.ID, text, true)

	event, err := b.store.GetEventByID(action.EventID)
	if err != nil {
		b.log.Error("Failed to load event for host notification", zap.Error(err))
	} else if event != nil {
		b.notifyHost(event, cb.From, action.Status, action.GuestCount)
	}

	// Re-render the keyboard with the current selection marked.
	if cb.Message != nil {
		markup := b.rsvpKeyboard(action.EventID, action.Status, action.GuestCount)
		edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, markup)
		if _, err := b.api.Request(edit); err != nil {
			// Message might be too old to edit.
			b.log.Debug("Failed to edit reply markup", zap.Error(err))
		}
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	cb.ShowAlert = alert
	if _, err := b.api.Request(cb); err != nil {
		b.log.Debug("Failed to answer callback query", zap.Error(err))
	}
}

// rsvpKeyboard builds the inline RSVP keyboard; the current selection,
// when given, is marked with a check.
func (b *Bot) rsvpKeyboard(eventID, selectedStatus string, selectedCount int) tgbotapi.InlineKeyboardMarkup {
	accepted := selectedStatus == model.StatusAccepted

	label := func(base string, active bool) string {
		if active {
			return base + " ✓"
		}
		return base
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				label("✅ Приду (1)", accepted && selectedCount == 1),
				fmt.Sprintf("rsvp:%s:accepted:1", eventID)),
			tgbotapi.NewInlineKeyboardButtonData(
				label("👥 +1", accepted && selectedCount == 2),
				fmt.Sprintf("rsvp:%s:accepted:2", eventID)),
			tgbotapi.NewInlineKeyboardButtonData(
				label("👨‍👩‍👧 +2-3", accepted && selectedCount >= 3),
				fmt.Sprintf("rsvp:%s:accepted:3", eventID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				label("❌ Не смогу", selectedStatus == model.StatusDeclined),
				fmt.Sprintf("rsvp:%s:declined:0", eventID)),
		),
		tgbotapi.NewInlineKeyboardRow(b.webAppButton("📅 Открыть календарь")),
	)
}
