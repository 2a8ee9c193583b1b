package bot

import (
	"strconv"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainKeyboard(lang string, admin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.T(lang, i18n.KeyBtnBook))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.T(lang, i18n.KeyBtnMenu))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.T(lang, i18n.KeyBtnChangeLang))),
	}
	if admin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.T(lang, i18n.KeyBtnAdminPanel))))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.T(lang, i18n.KeyBtnCancel))),
	)
	kb.ResizeKeyboard = true
	return kb
}

// languageKeyboard labels each button in its own language.
func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		button(i18n.T(i18n.RU, i18n.KeyBtnLangRu), ChooseLanguage{Lang: i18n.RU}),
		button(i18n.T(i18n.LV, i18n.KeyBtnLangLv), ChooseLanguage{Lang: i18n.LV}),
		button(i18n.T(i18n.EN, i18n.KeyBtnLangEn), ChooseLanguage{Lang: i18n.EN}),
	))
}

func tablesKeyboard(lang string, tables []models.Table) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tables))
	for _, t := range tables {
		label := i18n.T(lang, i18n.KeyTableOption, "title", t.Title, "seats", strconv.Itoa(t.Seats))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, PickTable{TableID: t.ID})))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// noticeKeyboard goes under the new-booking notice in the admin chat.
func noticeKeyboard(lang string, bookingID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		button(i18n.T(lang, i18n.KeyBtnAdminConfirm), SetStatus{BookingID: bookingID, Status: models.StatusConfirmed, FromNotice: true}),
		button(i18n.T(lang, i18n.KeyBtnAdminCancel), SetStatus{BookingID: bookingID, Status: models.StatusCancelled, FromNotice: true}),
		button(i18n.T(lang, i18n.KeyBtnAdminDelete), DeleteBooking{BookingID: bookingID}),
	))
}

func button(text string, cb Callback) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cb.Data())
}

func emptyInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
