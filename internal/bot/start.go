package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	param := msg.CommandArguments()

	if action, ok := parseRSVPStart(param); ok {
		b.handleRSVPFromWeb(msg, action)
		return
	}

	if strings.HasPrefix(param, "event_") {
		b.handleEventDeepLink(msg, strings.TrimPrefix(param, "event_"))
		return
	}

	b.sendWelcome(msg.Chat.ID)
}

func (b *Bot) sendWelcome(chatID int64) {
	text := "🌙 *Салам!*\n\n" +
		"Это приложение для координации ифтаров во время Рамадана.\n\n" +
		"✨ *Что можно делать:*\n" +
		"• Создавать приглашения на ифтар\n" +
		"• Видеть кто уже приглашён на какие даты\n" +
		"• Отвечать на приглашения одним тапом\n" +
		"• Не пересекаться с другими хозяевами\n\n" +
		"Нажми кнопку ниже чтобы начать 👇"

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.webAppButton("🌙 Открыть Iftar App")),
	)
	b.send(reply)
}

// handleEventDeepLink renders the invite card for /start event_{id} and
// ensures the caller holds a pending invitation.
func (b *Bot) handleEventDeepLink(msg *tgbotapi.Message, eventID string) {
	event, err := b.store.GetEventByID(eventID)
	if err != nil {
		b.log.Error("Failed to load event for deep link", zap.Error(err))
		return
	}
	if event == nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Приглашение не найдено или устарело."))
		return
	}

	if msg.From != nil {
		user, err := b.upsertUser(msg.From)
		if err != nil {
			b.log.Error("Failed to upsert user", zap.Error(err))
		} else if err := b.store.EnsureInvitation(eventID, user.ID); err != nil {
			b.log.Error("Failed to ensure invitation", zap.Error(err))
		}
	}

	hostName := "Друг"
	if event.Host != nil {
		hostName = displayName(event.Host.FirstName, event.Host.Username, hostName)
	}
	location := orDefault(event.Location, "Уточняется")
	eventTime := ""
	if event.IftarTime != nil && len(*event.IftarTime) >= 5 {
		eventTime = (*event.IftarTime)[:5]
	}
	if eventTime == "" {
		eventTime = "—"
	}
	address := orDefault(event.Address, "")

	ramadanDay := 0
	if eventDate, err := time.Parse("2006-01-02", event.Date); err == nil {
		ramadanDay = prayer.RamadanDay(eventDate)
	}

	text := fmt.Sprintf("🌙 *Приглашение на ифтар*\n\n*%s* зовёт тебя разделить ифтар\n\n", hostName)
	text += fmt.Sprintf("📅  *%d Рамадан* · %s\n", ramadanDay, formatDate(event.Date))
	text += fmt.Sprintf("⏰  %s\n", eventTime)
	text += fmt.Sprintf("📍  %s", location)
	if address != "" {
		text += " · " + address
	}
	text += "\n"
	if event.Notes != nil && *event.Notes != "" {
		text += fmt.Sprintf("\n💬 _%s_\n", *event.Notes)
	}
	text += "\n*Ты придёшь?*"

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = b.rsvpKeyboard(eventID, "", 0)
	b.send(reply)
}

// handleRSVPFromWeb records an RSVP arriving through the web page's
// deep link, confirms to the guest, and notifies the host.
func (b *Bot) handleRSVPFromWeb(msg *tgbotapi.Message, action rsvpAction) {
	if msg.From == nil {
		return
	}

	user, err := b.upsertUser(msg.From)
	if err != nil {
		b.log.Error("Failed to upsert user", zap.Error(err))
		return
	}

	if _, err := b.store.CreateOrUpdateInvitation(action.EventID, user.ID, action.Status, action.GuestCount); err != nil {
		b.log.Error("Failed to record RSVP", zap.Error(err))
		return
	}

	event, err := b.store.GetEventByID(action.EventID)
	if err != nil || event == nil {
		if err != nil {
			b.log.Error("Failed to load event", zap.Error(err))
		}
		return
	}

	hostName := "друга"
	if event.Host != nil {
		hostName = displayName(event.Host.FirstName, nil, hostName)
	}
	dateStr := formatDate(event.Date)

	var text string
	if action.Status == model.StatusAccepted {
		text = fmt.Sprintf("✅ *Отлично!*\n\nТы%s придёшь на ифтар к %s!\n\n📅 %s\n📍 %s\n\n_Хочешь создать своё приглашение?_",
			guestCountLabel(action.GuestCount), hostName, dateStr, orDefault(event.Location, "Место уточняется"))
	} else {
		text = fmt.Sprintf("😔 *Жаль!*\n\nТы не сможешь прийти на ифтар к %s.\nМожет в другой раз!\n\n_Хочешь пригласить друзей к себе?_",
			hostName)
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.webAppButton("🌙 Создать приглашение")),
	)
	b.send(reply)

	b.notifyHost(event, msg.From, action.Status, action.GuestCount)
}

func (b *Bot) webAppButton(text string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.InlineKeyboardButton{
		Text:   text,
		WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.MiniAppURL},
	}
}
