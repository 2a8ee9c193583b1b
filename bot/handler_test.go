package bot

import (
	"strconv"
	"testing"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ru(key string, args ...string) string {
	return i18n.T(i18n.RU, key, args...)
}

func (f *fixture) session(t *testing.T, userID int64) Session {
	t.Helper()
	s, err := f.sessions.Get(t.Context(), userID)
	require.NoError(t, err)
	return s
}

func (f *fixture) bookingsOf(t *testing.T, userID int64) []models.Booking {
	t.Helper()
	var bookings []models.Booking
	require.NoError(t, f.db.Preload("Table").Where("user_id = ?", userID).Find(&bookings).Error)
	return bookings
}

func TestStartStoresLanguageAndAsksForIt(t *testing.T) {
	f := newFixture(t)
	f.say(t, guestID, "/start")

	lang, ok, err := f.prefs.Language(t.Context(), guestID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, i18n.RU, lang)

	msgs := f.api.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, ru(i18n.KeyStart, "btn_book", ru(i18n.KeyBtnBook)), msgs[0].Text)
	kb, ok := msgs[0].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.Keyboard, 3, "guests get no admin button")
	assert.Equal(t, ru(i18n.KeyChooseLang), msgs[1].Text)

	commands := f.api.requestsOf(func(c tgbotapi.Chattable) bool {
		_, ok := c.(tgbotapi.SetMyCommandsConfig)
		return ok
	})
	assert.Len(t, commands, 1)

	// a returning user is not asked again
	f.api.reset()
	f.say(t, guestID, "/start")
	assert.Len(t, f.api.messages(), 1)
}

func TestBookingConversation(t *testing.T) {
	f := newFixture(t)
	vip := f.tableByTitle(t, "VIP")

	f.say(t, guestID, ru(i18n.KeyBtnBook))
	assert.Equal(t, ru(i18n.KeyAskDate), f.api.lastMessage(t).Text)
	assert.Equal(t, StepDate, f.session(t, guestID).Step)

	f.say(t, guestID, "20.10.2026")
	assert.Equal(t, ru(i18n.KeyAskTime), f.api.lastMessage(t).Text)

	f.say(t, guestID, "19:00")
	assert.Equal(t, ru(i18n.KeyAskGuests), f.api.lastMessage(t).Text)

	f.say(t, guestID, "3")
	last := f.api.lastMessage(t)
	assert.Equal(t, ru(i18n.KeyAskTable), last.Text)
	kb, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2, "only tables seating three are offered")
	assert.Equal(t, PickTable{TableID: vip.ID}.Data(), *kb.InlineKeyboard[1][0].CallbackData)

	// typing instead of tapping repeats the question
	f.say(t, guestID, "the big one")
	assert.Equal(t, ru(i18n.KeyAskTable), f.api.lastMessage(t).Text)

	f.press(t, guestID, privateChat(guestID), PickTable{TableID: vip.ID})
	assert.Equal(t, ru(i18n.KeyAskName), f.api.lastMessage(t).Text)
	assert.Equal(t, StepName, f.session(t, guestID).Step)

	f.say(t, guestID, "Anna")
	assert.Equal(t, ru(i18n.KeyAskPhone), f.api.lastMessage(t).Text)

	f.say(t, guestID, "+37120000000")
	assert.Equal(t, ru(i18n.KeyThanks), f.api.lastMessage(t).Text)
	assert.Equal(t, StepIdle, f.session(t, guestID).Step)

	bookings := f.bookingsOf(t, guestID)
	require.Len(t, bookings, 1)
	b := bookings[0]
	assert.Equal(t, vip.ID, *b.TableID)
	assert.Equal(t, 3, b.PartySize)
	assert.Equal(t, "Anna", b.Name)
	assert.Equal(t, models.StatusNew, b.Status)

	var event models.OutboxEvent
	require.NoError(t, f.db.First(&event).Error)
	assert.Equal(t, models.EventAdminNewBooking, event.Kind)
	assert.Contains(t, event.Payload, `"requester_handle":"anna"`)
}

func TestInvalidInputKeepsStep(t *testing.T) {
	f := newFixture(t)
	f.say(t, guestID, "/book")

	f.say(t, guestID, "yesterday")
	assert.Equal(t, ru(i18n.KeyErrDateFormat), f.api.lastMessage(t).Text)
	assert.Equal(t, StepDate, f.session(t, guestID).Step)

	f.say(t, guestID, "01.01.2020")
	assert.Equal(t, ru(i18n.KeyErrDatePast), f.api.lastMessage(t).Text)

	f.say(t, guestID, "20.10.2026")
	f.say(t, guestID, "23:30")
	assert.Equal(t, ru(i18n.KeyErrTimeHours, "open", "10:00", "close", "22:00"), f.api.lastMessage(t).Text)
	assert.Equal(t, StepTime, f.session(t, guestID).Step)
}

func TestNoTablesReturnsToTime(t *testing.T) {
	f := newFixture(t)
	vip := f.tableByTitle(t, "VIP")
	require.NoError(t, f.store.Create(t.Context(), &models.Booking{
		RequesterID: 1, Name: "Other", Phone: "+37121111111",
		Date: models.Date{Year: 2026, Month: 10, Day: 20}, StartTime: models.NewClockTime(18, 0),
		PartySize: 6, TableID: &vip.ID,
	}))

	f.say(t, guestID, "/book")
	f.say(t, guestID, "20.10.2026")
	f.say(t, guestID, "19:00")
	f.say(t, guestID, "6")

	assert.Equal(t, ru(i18n.KeyNoTables), f.api.lastMessage(t).Text)
	assert.Equal(t, StepTime, f.session(t, guestID).Step)

	// a later time works
	f.say(t, guestID, "20:00")
	f.say(t, guestID, "6")
	assert.Equal(t, ru(i18n.KeyAskTable), f.api.lastMessage(t).Text)
}

func TestTableTakenBeforeSubmit(t *testing.T) {
	f := newFixture(t)
	vip := f.tableByTitle(t, "VIP")

	f.say(t, guestID, "/book")
	f.say(t, guestID, "20.10.2026")
	f.say(t, guestID, "19:00")
	f.say(t, guestID, "5")
	f.press(t, guestID, privateChat(guestID), PickTable{TableID: vip.ID})
	f.say(t, guestID, "Anna")

	// someone else gets the only big table meanwhile
	require.NoError(t, f.store.Create(t.Context(), &models.Booking{
		RequesterID: 1, Name: "Other", Phone: "+37121111111",
		Date: models.Date{Year: 2026, Month: 10, Day: 20}, StartTime: models.NewClockTime(19, 30),
		PartySize: 6, TableID: &vip.ID,
	}))

	f.say(t, guestID, "+37120000000")
	assert.Equal(t, ru(i18n.KeyNoTables), f.api.lastMessage(t).Text)
	s := f.session(t, guestID)
	assert.Equal(t, StepTime, s.Step)
	assert.Equal(t, "Anna", s.Name)
	assert.Empty(t, f.bookingsOf(t, guestID))
}

func TestPickTableNotOffered(t *testing.T) {
	f := newFixture(t)
	terrace := f.tableByTitle(t, "Терраса")

	f.say(t, guestID, "/book")
	f.say(t, guestID, "20.10.2026")
	f.say(t, guestID, "19:00")
	f.say(t, guestID, "4")
	f.api.reset()

	f.press(t, guestID, privateChat(guestID), PickTable{TableID: terrace.ID})
	assert.Empty(t, f.api.messages())
	assert.Equal(t, StepTable, f.session(t, guestID).Step)
	assert.Empty(t, f.api.lastAnswer(t).Text)
}

func TestCancelButtonEndsConversation(t *testing.T) {
	f := newFixture(t)
	f.say(t, guestID, "/book")
	f.say(t, guestID, "20.10.2026")

	f.say(t, guestID, i18n.T(i18n.EN, i18n.KeyBtnCancel))
	assert.Equal(t, ru(i18n.KeyCancelled), f.api.lastMessage(t).Text)
	assert.Equal(t, StepIdle, f.session(t, guestID).Step)

	// idle chatter is ignored
	f.api.reset()
	f.say(t, guestID, "hello")
	assert.Empty(t, f.api.messages())
}

func TestMenuAndIdentity(t *testing.T) {
	f := newFixture(t)

	f.say(t, guestID, ru(i18n.KeyBtnMenu))
	assert.Equal(t, ru(i18n.KeyMenu, "url", "https://example.com/menu"), f.api.lastMessage(t).Text)

	f.say(t, guestID, "/id")
	assert.Equal(t, ru(i18n.KeyChatID, "id", strconv.FormatInt(guestID, 10)), f.api.lastMessage(t).Text)

	f.say(t, guestID, "/whoami")
	last := f.api.lastMessage(t)
	assert.Contains(t, last.Text, strconv.FormatInt(guestID, 10))
	assert.Contains(t, last.Text, "anna")
	assert.Equal(t, 1, last.ReplyToMessageID)
}

func TestChooseLanguage(t *testing.T) {
	f := newFixture(t)
	f.press(t, guestID, privateChat(guestID), ChooseLanguage{Lang: i18n.LV})

	lang, ok, err := f.prefs.Language(t.Context(), guestID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, i18n.LV, lang)

	msgs := f.api.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, i18n.T(i18n.LV, i18n.KeyLangSet), msgs[0].Text)

	f.say(t, guestID, "/book")
	assert.Equal(t, i18n.T(i18n.LV, i18n.KeyAskDate), f.api.lastMessage(t).Text)
}

// submitBooking walks the guest through the form for two at 19:00 and
// returns the stored booking.
func submitBooking(t *testing.T, f *fixture) models.Booking {
	t.Helper()
	hall := f.tableByTitle(t, "Зал №1")
	f.say(t, guestID, "/book")
	f.say(t, guestID, "20.10.2026")
	f.say(t, guestID, "19:00")
	f.say(t, guestID, "2")
	f.press(t, guestID, privateChat(guestID), PickTable{TableID: hall.ID})
	f.say(t, guestID, "Anna")
	f.say(t, guestID, "+37120000000")

	bookings := f.bookingsOf(t, guestID)
	require.Len(t, bookings, 1)
	f.api.reset()
	return bookings[0]
}

func TestConfirmFromNotice(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)

	f.press(t, staffID, adminChat(), SetStatus{BookingID: b.ID, Status: models.StatusConfirmed, FromNotice: true})

	stored, err := f.store.Get(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	edits := f.api.requestsOf(func(c tgbotapi.Chattable) bool {
		_, ok := c.(tgbotapi.EditMessageTextConfig)
		return ok
	})
	require.Len(t, edits, 1)
	edit := edits[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, "notice\n\n"+ru(i18n.KeyAdminNoteConfirmed), edit.Text)
	assert.Equal(t, 77, edit.MessageID)
	assert.Equal(t, ru(i18n.KeyOK), f.api.lastAnswer(t).Text)

	// pressing again changes nothing
	f.press(t, staffID, adminChat(), SetStatus{BookingID: b.ID, Status: models.StatusConfirmed, FromNotice: true})
	assert.Equal(t, ru(i18n.KeyBookingStatusKept, "status", "confirmed"), f.api.lastAnswer(t).Text)

	var events int64
	require.NoError(t, f.db.Model(&models.OutboxEvent{}).Where("kind = ?", models.EventUserConfirmed).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestCancelFromPanel(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)

	f.press(t, staffID, privateChat(staffID), SetStatus{BookingID: b.ID, Status: models.StatusCancelled})
	assert.Equal(t, ru(i18n.KeyDoneCancelled), f.api.lastAnswer(t).Text)

	stored, err := f.store.Get(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestGuestCannotUseAdminButtons(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)

	f.press(t, guestID, privateChat(guestID), SetStatus{BookingID: b.ID, Status: models.StatusConfirmed, FromNotice: true})
	f.press(t, guestID, privateChat(guestID), DeleteBooking{BookingID: b.ID})
	f.press(t, guestID, privateChat(guestID), ShowPage{Page: 0})

	stored, err := f.store.Get(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Empty(t, f.api.messages())
	for _, answer := range f.api.callbackAnswers() {
		assert.Empty(t, answer.Text)
	}
}

func TestSetStatusUnknownBooking(t *testing.T) {
	f := newFixture(t)
	f.press(t, staffID, adminChat(), SetStatus{BookingID: 404, Status: models.StatusConfirmed, FromNotice: true})

	answer := f.api.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, ru(i18n.KeyBookingNotFound, "id", "404"), answer.Text)
}

func TestAdminPanel(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)

	f.say(t, guestID, "/admin")
	assert.Empty(t, f.api.messages())

	f.say(t, staffID, "/admin")
	msgs := f.api.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "#"+strconv.FormatUint(uint64(b.ID), 10))
	_, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok)

	f.press(t, staffID, privateChat(staffID), ShowPage{Page: 0, Filter: "confirmed", FilterPicked: true})
	edits := f.api.requestsOf(func(c tgbotapi.Chattable) bool {
		_, ok := c.(tgbotapi.EditMessageTextConfig)
		return ok
	})
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].(tgbotapi.EditMessageTextConfig).Text, ru(i18n.KeyEmpty))
}

func TestDeleteCommand(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)
	id := strconv.FormatUint(uint64(b.ID), 10)

	f.say(t, guestID, "/del "+id)
	assert.Empty(t, f.api.messages())

	f.say(t, staffID, "/del abc")
	assert.Equal(t, ru(i18n.KeyIDMustBeNumber), f.api.lastMessage(t).Text)

	f.say(t, staffID, "/del")
	assert.Equal(t, ru(i18n.KeyAskID), f.api.lastMessage(t).Text)
	f.say(t, staffID, "soon")
	assert.Equal(t, ru(i18n.KeyNeedNumber), f.api.lastMessage(t).Text)
	f.say(t, staffID, "#"+id)
	assert.Equal(t, ru(i18n.KeyBookingDeleted, "id", id), f.api.lastMessage(t).Text)
	assert.Equal(t, StepIdle, f.session(t, staffID).Step)

	f.say(t, staffID, "/del "+id)
	assert.Equal(t, ru(i18n.KeyBookingNotFound, "id", id), f.api.lastMessage(t).Text)
}

func TestDeleteFromPanelButtons(t *testing.T) {
	f := newFixture(t)
	b := submitBooking(t, f)

	f.press(t, staffID, privateChat(staffID), AskDelete{Page: 0})
	assert.Equal(t, ru(i18n.KeyEnterBookingID), f.api.lastMessage(t).Text)
	assert.Equal(t, StepDeleteID, f.session(t, staffID).Step)

	f.press(t, staffID, privateChat(staffID), DeleteBooking{BookingID: b.ID})
	assert.Equal(t, ru(i18n.KeyDoneDeleted), f.api.lastAnswer(t).Text)
	_, err := f.store.Get(t.Context(), b.ID)
	assert.Error(t, err)
}

func TestLeavesForeignGroups(t *testing.T) {
	f := newFixture(t)
	group := &tgbotapi.Chat{ID: -900, Type: "group"}

	f.handler.HandleUpdate(t.Context(), textUpdate(guestID, group, "/start"))
	assert.Empty(t, f.api.messages())

	leaves := f.api.requestsOf(func(c tgbotapi.Chattable) bool {
		leave, ok := c.(tgbotapi.LeaveChatConfig)
		return ok && leave.ChatID == -900
	})
	assert.Len(t, leaves, 1)

	f.handler.HandleUpdate(t.Context(), tgbotapi.Update{MyChatMember: &tgbotapi.ChatMemberUpdated{
		Chat:          tgbotapi.Chat{ID: -901, Type: "supergroup"},
		NewChatMember: tgbotapi.ChatMember{Status: "member"},
	}})
	f.handler.HandleUpdate(t.Context(), tgbotapi.Update{MyChatMember: &tgbotapi.ChatMemberUpdated{
		Chat:          tgbotapi.Chat{ID: adminChatID, Type: "supergroup"},
		NewChatMember: tgbotapi.ChatMember{Status: "administrator"},
	}})
	leaves = f.api.requestsOf(func(c tgbotapi.Chattable) bool {
		_, ok := c.(tgbotapi.LeaveChatConfig)
		return ok
	})
	assert.Len(t, leaves, 2)
}

func TestCallbackFromUnservedChatIsOnlyAnswered(t *testing.T) {
	f := newFixture(t)
	channel := &tgbotapi.Chat{ID: -77, Type: "channel"}

	f.press(t, staffID, channel, ShowPage{Page: 0})
	assert.Len(t, f.api.callbackAnswers(), 1)
	assert.Empty(t, f.api.messages())
}

func TestUserLocksAreReleased(t *testing.T) {
	locks := userLocks{m: make(map[int64]*userLock)}
	unlock := locks.lock(1)
	unlockOther := locks.lock(2)
	assert.Len(t, locks.m, 2)
	unlock()
	unlockOther()
	assert.Empty(t, locks.m)
}
