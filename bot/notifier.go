package bot

import (
	"context"
	"fmt"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier delivers outbox notifications as Telegram messages: new
// bookings to the admin chat, status changes to the guest.
type Notifier struct {
	api         Sender
	prefs       *services.PreferenceStore
	adminChatID int64
	log         logrus.FieldLogger
}

func NewNotifier(api Sender, prefs *services.PreferenceStore, adminChatID int64, log logrus.FieldLogger) *Notifier {
	return &Notifier{api: api, prefs: prefs, adminChatID: adminChatID, log: log}
}

func (n *Notifier) SinkName() string { return "telegram" }

func (n *Notifier) Deliver(ctx context.Context, note services.Notification) error {
	switch note.Kind {
	case models.EventAdminNewBooking:
		if n.adminChatID == 0 {
			n.log.WithField("booking_id", note.Booking.ID).Debug("no admin chat configured, notice skipped")
			return nil
		}
		// the notice is written in the guest's language
		lang := n.prefs.LanguageOr(ctx, note.Booking.RequesterID, i18n.Default)
		msg := tgbotapi.NewMessage(n.adminChatID, newBookingNotice(lang, note.Booking, note.RequesterHandle))
		msg.ReplyMarkup = noticeKeyboard(lang, note.Booking.ID)
		return n.send(msg)

	case models.EventUserConfirmed, models.EventUserCancelled:
		if note.RecipientID == 0 {
			return nil
		}
		key := i18n.KeyUserConfirmed
		if note.Kind == models.EventUserCancelled {
			key = i18n.KeyUserCancelled
		}
		lang := n.prefs.LanguageOr(ctx, note.RecipientID, i18n.Default)
		return n.send(tgbotapi.NewMessage(note.RecipientID, i18n.T(lang, key)))
	}
	return fmt.Errorf("unsupported notification kind %q", note.Kind)
}

func (n *Notifier) send(msg tgbotapi.MessageConfig) error {
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", msg.ChatID, err)
	}
	return nil
}
