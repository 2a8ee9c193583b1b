package bot

import (
	"strings"
	"testing"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/stretchr/testify/assert"
)

func TestParseBookingID(t *testing.T) {
	tests := map[string]uint{
		"12":     12,
		"#12":    12,
		"# 12":   12,
		"  7  ":  7,
		"#":      0,
		"0":      0,
		"twelve": 0,
		"-4":     0,
	}
	for input, want := range tests {
		id, ok := parseBookingID(input)
		assert.Equal(t, want != 0, ok, input)
		assert.Equal(t, want, id, input)
	}
}

func TestAdminPage(t *testing.T) {
	b := noticeBooking()
	text, kb := adminPage(i18n.EN, 1, services.FilterNew, []models.Booking{b})

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines[0], "2")
	assert.Contains(t, lines[0], i18n.T(i18n.EN, i18n.KeyAdminFilterNew))
	assert.Contains(t, text, "#12")
	assert.Contains(t, text, "Зал №1")
	assert.Contains(t, text, "+37120000000")
	assert.Contains(t, text, "[new]")

	a := assert.New(t)
	a.Len(kb.InlineKeyboard, 3)
	nav := kb.InlineKeyboard[0]
	a.Equal("ap:page:0:new", *nav[0].CallbackData)
	a.Equal("ap:nop", *nav[1].CallbackData)
	a.Equal("ap:page:2:new", *nav[2].CallbackData)
	a.Len(kb.InlineKeyboard[1], len(services.StatusFilters))
	a.Equal("ap:delask:1:new", *kb.InlineKeyboard[2][0].CallbackData)
}

func TestAdminPageFirstPageEmpty(t *testing.T) {
	text, kb := adminPage(i18n.RU, 0, services.FilterAll, nil)
	assert.Contains(t, text, i18n.T(i18n.RU, i18n.KeyEmpty))
	assert.Equal(t, "ap:page:0:all", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestNewBookingNoticeFallsBackToUserID(t *testing.T) {
	text := newBookingNotice(i18n.EN, noticeBooking(), "")
	assert.Contains(t, text, "@7")
}
