package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// SendReminders messages everyone involved in tomorrow's events: each
// accepted guest gets the time and place, the host gets the head-count.
// Send failures are logged and never retried.
func (b *Bot) SendReminders() error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	b.log.Info("Checking reminders", zap.String("date", tomorrow))

	events, err := b.store.GetEventsByDate(tomorrow)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		b.log.Info("No events tomorrow")
		return nil
	}

	for _, details := range events {
		b.remindEvent(details)
	}
	return nil
}

func (b *Bot) remindEvent(details store.EventDetails) {
	dateStr := formatDate(details.Date)
	hostName := "Хозяин"
	if details.Host != nil {
		hostName = displayName(details.Host.FirstName, nil, hostName)
	}
	iftarTime := orDefault(details.IftarTime, "18:00")
	location := orDefault(details.Location, "Место уточняется")

	var accepted []model.Invitation
	for _, inv := range details.Invitations {
		if inv.Status == model.StatusAccepted {
			accepted = append(accepted, inv)
		}
	}

	// Guests first.
	for _, inv := range accepted {
		if inv.Guest == nil {
			continue
		}
		text := fmt.Sprintf("🔔 *Напоминание!*\n\nЗавтра ифтар у %s!\n📅 %s\n⏰ %s\n📍 %s",
			hostName, dateStr, iftarTime, location)
		msg := tgbotapi.NewMessage(inv.Guest.TelegramID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("Failed to send guest reminder",
				zap.Int64("telegram_id", inv.Guest.TelegramID), zap.Error(err))
			continue
		}
		prometheus.RemindersSentCounter.WithLabelValues("guest").Inc()
	}

	// Then the host, with the tally of who is coming.
	if details.Host == nil {
		return
	}
	totalGuests := 0
	var names []string
	for _, inv := range accepted {
		count := inv.GuestCount
		if count < 1 {
			count = 1
		}
		totalGuests += count

		name := "Гость"
		if inv.Guest != nil {
			name = displayName(inv.Guest.FirstName, inv.Guest.Username, name)
		}
		if count > 1 {
			name = fmt.Sprintf("%s (+%d)", name, count-1)
		}
		names = append(names, name)
	}

	nameList := strings.Join(names, ", ")
	if nameList == "" {
		nameList = "пока никто"
	}

	text := fmt.Sprintf("🔔 *Напоминание!*\n\nЗавтра твой ифтар!\n📅 %s\n⏰ %s\n👥 Придут (%d чел.): %s",
		dateStr, iftarTime, totalGuests, nameList)
	msg := tgbotapi.NewMessage(details.Host.TelegramID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("Failed to send host reminder",
			zap.Int64("telegram_id", details.Host.TelegramID), zap.Error(err))
		return
	}
	prometheus.RemindersSentCounter.WithLabelValues("host").Inc()
}
