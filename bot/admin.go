package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var filterLabels = map[services.StatusFilter]string{
	services.FilterAll:       i18n.KeyAdminFilterAll,
	services.FilterNew:       i18n.KeyAdminFilterNew,
	services.FilterConfirmed: i18n.KeyAdminFilterConfirmed,
	services.FilterCancelled: i18n.KeyAdminFilterCancelled,
}

func filterLabel(lang string, f services.StatusFilter) string {
	if key, ok := filterLabels[f]; ok {
		return i18n.T(lang, key)
	}
	return string(f)
}

// adminPage renders one page of the admin list with its navigation.
func adminPage(lang string, page int, filter services.StatusFilter, bookings []models.Booking) (string, tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString(i18n.T(lang, i18n.KeyAdminListHeader,
		"page", strconv.Itoa(page+1),
		"status_label", i18n.T(lang, i18n.KeyAdminStatusLabel),
		"status", filterLabel(lang, filter),
	))
	b.WriteString("\n\n")
	if len(bookings) == 0 {
		b.WriteString(i18n.T(lang, i18n.KeyEmpty))
	}
	for i, booking := range bookings {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(bookingLine(lang, booking))
	}
	return b.String(), adminKeyboard(lang, page, filter)
}

func bookingLine(lang string, booking models.Booking) string {
	return fmt.Sprintf("#%d — %s %s, %s:%s, %s:%d, %s (%s) [%s]",
		booking.ID, booking.Date, booking.StartTime,
		strings.ToLower(i18n.T(lang, i18n.KeyAdminFieldTable)), booking.TableTitle(),
		strings.ToLower(i18n.T(lang, i18n.KeyAdminFieldGuests)), booking.PartySize,
		booking.Name, booking.Phone, booking.Status)
}

func adminKeyboard(lang string, page int, filter services.StatusFilter) tgbotapi.InlineKeyboardMarkup {
	prev := page - 1
	if prev < 0 {
		prev = 0
	}
	status := fmt.Sprintf("%s: %s", i18n.T(lang, i18n.KeyAdminStatusLabel), filterLabel(lang, filter))

	filters := make([]tgbotapi.InlineKeyboardButton, 0, len(services.StatusFilters))
	for _, f := range services.StatusFilters {
		filters = append(filters, button(filterLabel(lang, f), ShowPage{Page: page, Filter: f, FilterPicked: true}))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("⬅️", ShowPage{Page: prev, Filter: filter}),
			button(status, Noop{}),
			button("➡️", ShowPage{Page: page + 1, Filter: filter}),
		),
		filters,
		tgbotapi.NewInlineKeyboardRow(button(i18n.T(lang, i18n.KeyBtnAdminDelete), AskDelete{Page: page, Filter: filter})),
	)
}

// newBookingNotice is the text sent to the admin chat for a new booking.
func newBookingNotice(lang string, booking models.Booking, handle string) string {
	if handle == "" {
		handle = strconv.FormatInt(booking.RequesterID, 10)
	}
	lines := []string{
		i18n.T(lang, i18n.KeyAdminNew),
		i18n.T(lang, i18n.KeyAdminFieldDate) + ": " + booking.Date.String(),
		i18n.T(lang, i18n.KeyAdminFieldTime) + ": " + booking.StartTime.String(),
		i18n.T(lang, i18n.KeyAdminFieldTable) + ": " + booking.TableTitle(),
		i18n.T(lang, i18n.KeyAdminFieldGuests) + ": " + strconv.Itoa(booking.PartySize),
		i18n.T(lang, i18n.KeyAdminFieldName) + ": " + booking.Name,
		i18n.T(lang, i18n.KeyAdminFieldPhone) + ": " + booking.Phone,
		i18n.T(lang, i18n.KeyAdminFieldUser) + ": @" + handle,
	}
	return strings.Join(lines, "\n")
}

// parseBookingID accepts "12", "#12" and "# 12".
func parseBookingID(text string) (uint, bool) {
	s := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(text), "#"), " ", "")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
