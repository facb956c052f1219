package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
)

func TestFormatDate(t *testing.T) {
	require.Equal(t, "2 марта", formatDate("2026-03-02"))
	require.Equal(t, "17 февраля", formatDate("2026-02-17"))
	// Unparseable input passes through.
	require.Equal(t, "tomorrow", formatDate("tomorrow"))
}

func TestParseRSVPStart(t *testing.T) {
	action, ok := parseRSVPStart("rsvp_5f1c9a2e-0000-4000-8000-000000000001_accepted_3")
	require.True(t, ok)
	require.Equal(t, "5f1c9a2e-0000-4000-8000-000000000001", action.EventID)
	require.Equal(t, model.StatusAccepted, action.Status)
	require.Equal(t, 3, action.GuestCount)

	// Bad or missing count defaults to 1.
	action, ok = parseRSVPStart("rsvp_abc_declined_x")
	require.True(t, ok)
	require.Equal(t, 1, action.GuestCount)

	_, ok = parseRSVPStart("event_abc")
	require.False(t, ok)
	_, ok = parseRSVPStart("rsvp_abc_accepted")
	require.False(t, ok)
}

func TestParseRSVPCallback(t *testing.T) {
	action, ok := parseRSVPCallback("rsvp:evt-1:accepted:2")
	require.True(t, ok)
	require.Equal(t, "evt-1", action.EventID)
	require.Equal(t, model.StatusAccepted, action.Status)
	require.Equal(t, 2, action.GuestCount)

	action, ok = parseRSVPCallback("rsvp:evt-1:maybe:0")
	require.True(t, ok)
	require.Equal(t, 1, action.GuestCount)

	_, ok = parseRSVPCallback("rsvp:evt-1:accepted")
	require.False(t, ok)
	_, ok = parseRSVPCallback("other:evt-1:accepted:1")
	require.False(t, ok)
}

func TestGuestCountLabel(t *testing.T) {
	require.Equal(t, "", guestCountLabel(0))
	require.Equal(t, "", guestCountLabel(1))
	require.Equal(t, " вдвоём", guestCountLabel(2))
	require.Equal(t, " (3 человека)", guestCountLabel(3))
}

func TestHostNotification(t *testing.T) {
	text := hostNotification("Aisha", model.StatusAccepted, 3, "2026-03-02", "Дом")
	require.Contains(t, text, "✅")
	require.Contains(t, text, "Aisha")
	require.Contains(t, text, "придёт (3 чел.)")
	require.Contains(t, text, "2 марта")
	require.Contains(t, text, "Дом")

	text = hostNotification("Aisha", model.StatusDeclined, 1, "2026-03-02", "")
	require.Contains(t, text, "❌")
	require.Contains(t, text, "не сможет")
	require.Contains(t, text, "Место не указано")
	require.False(t, strings.Contains(text, "чел."))

	text = hostNotification("Aisha", model.StatusMaybe, 1, "2026-03-02", "Дом")
	require.Contains(t, text, "🤔")
	require.Contains(t, text, "пока не уверен")
}

func TestDisplayName(t *testing.T) {
	name := "Aisha"
	handle := "aisha_k"
	empty := ""

	require.Equal(t, "Aisha", displayName(&name, &handle, "Гость"))
	require.Equal(t, "aisha_k", displayName(nil, &handle, "Гость"))
	require.Equal(t, "aisha_k", displayName(&empty, &handle, "Гость"))
	require.Equal(t, "Гость", displayName(nil, nil, "Гость"))
}

func TestOrDefault(t *testing.T) {
	v := "18:30"
	empty := ""
	require.Equal(t, "18:30", orDefault(&v, "18:00"))
	require.Equal(t, "18:00", orDefault(&empty, "18:00"))
	require.Equal(t, "18:00", orDefault(nil, "18:00"))
}
