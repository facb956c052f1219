package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
)

var russianMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDate renders an ISO date as "2 марта". Falls back to the raw
// string when it does not parse.
func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s", t.Day(), russianMonths[t.Month()-1])
}

// rsvpAction is a parsed RSVP instruction from a deep link or callback.
type rsvpAction struct {
	EventID    string
	Status     string
	GuestCount int
}

// parseRSVPStart parses the web deep-link payload
// "rsvp_{eventId}_{status}_{guestCount}".
func parseRSVPStart(param string) (rsvpAction, bool) {
	parts := strings.Split(param, "_")
	if len(parts) < 4 || parts[0] != "rsvp" {
		return rsvpAction{}, false
	}
	count, err := strconv.Atoi(parts[3])
	if err != nil || count < 1 {
		count = 1
	}
	return rsvpAction{EventID: parts[1], Status: parts[2], GuestCount: count}, true
}

// parseRSVPCallback parses inline-button data
// "rsvp:{eventId}:{status}:{guestCount}".
func parseRSVPCallback(data string) (rsvpAction, bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != "rsvp" {
		return rsvpAction{}, false
	}
	count, err := strconv.Atoi(parts[3])
	if err != nil || count < 1 {
		count = 1
	}
	return rsvpAction{EventID: parts[1], Status: parts[2], GuestCount: count}, true
}

// guestCountLabel renders the head-count suffix used in confirmations.
func guestCountLabel(count int) string {
	switch {
	case count <= 1:
		return ""
	case count == 2:
		return " вдвоём"
	default:
		return fmt.Sprintf(" (%d человека)", count)
	}
}

// hostNotification renders the push sent to the host on a guest's RSVP.
func hostNotification(guestName, status string, guestCount int, eventDate, location string) string {
	countText := ""
	if guestCount > 1 {
		countText = fmt.Sprintf(" (%d чел.)", guestCount)
	}

	var emoji, label string
	switch status {
	case model.StatusAccepted:
		emoji, label = "✅", "придёт"+countText
	case model.StatusDeclined:
		emoji, label = "❌", "не сможет"
	default:
		emoji, label = "🤔", "пока не уверен"
	}

	if location == "" {
		location = "Место не указано"
	}
	return fmt.Sprintf("%s *%s* %s!\n\n📅 Ифтар %s\n📍 %s",
		emoji, guestName, label, formatDate(eventDate), location)
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

// displayName picks the friendliest available name part.
func displayName(firstName, username *string, def string) string {
	if firstName != nil && *firstName != "" {
		return *firstName
	}
	if username != nil && *username != "" {
		return *username
	}
	return def
}
