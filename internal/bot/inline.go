package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
)

// handleInlineQuery answers with the caller's upcoming hosted events so
// they can share an invite link into any chat.
func (b *Bot) handleInlineQuery(q *tgbotapi.InlineQuery) {
	user, err := b.store.GetUserByTelegramID(q.From.ID)
	if err != nil {
		b.log.Error("Failed to look up inline query user", zap.Error(err))
		return
	}

	var results []interface{}
	if user != nil {
		events, err := b.store.GetHostEvents(user.ID, 10)
		if err != nil {
			b.log.Error("Failed to list host events", zap.Error(err))
			return
		}

		query := strings.ToLower(q.Query)
		for _, event := range events {
			if query != "" {
				location := ""
				if event.Location != nil {
					location = strings.ToLower(*event.Location)
				}
				if !strings.Contains(location, query) && !strings.Contains(event.Date, query) {
					continue
				}
			}

			ramadanDay := 0
			if eventDate, err := time.Parse("2006-01-02", event.Date); err == nil {
				ramadanDay = prayer.RamadanDay(eventDate)
			}

			article := tgbotapi.NewInlineQueryResultArticle(
				event.ID,
				fmt.Sprintf("🌙 Ифтар %s", formatDate(event.Date)),
				fmt.Sprintf("%s/invite/%s", b.cfg.MiniAppURL, event.ID),
			)
			article.Description = fmt.Sprintf("%d Рамадан • %s", ramadanDay, orDefault(event.Location, "Место не указано"))
			results = append(results, article)
		}
	}

	answer := tgbotapi.InlineConfig{
		InlineQueryID: q.ID,
		Results:       results,
		CacheTime:     10,
	}
	if _, err := b.api.Request(answer); err != nil {
		b.log.Error("Failed to answer inline query", zap.Error(err))
	}
}
