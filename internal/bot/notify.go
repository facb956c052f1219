package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
)

// notifyHost pushes a "guest responded" message to the event's host.
// Skipped when the responder is the host themselves.
func (b *Bot) notifyHost(event *model.Event, from *tgbotapi.User, status string, guestCount int) {
	if event.Host == nil || event.Host.TelegramID == from.ID {
		return
	}

	guestName := from.FirstName
	if guestName == "" {
		guestName = from.UserName
	}
	if guestName == "" {
		guestName = "Гость"
	}

	location := ""
	if event.Location != nil {
		location = *event.Location
	}

	msg := tgbotapi.NewMessage(event.Host.TelegramID,
		hostNotification(guestName, status, guestCount, event.Date, location))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}
