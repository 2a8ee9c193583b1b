package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Handler routes Telegram updates. Updates of one user are handled one
// at a time; different users run in parallel.
type Handler struct {
	api      Sender
	bookings *services.BookingService
	prefs    *services.PreferenceStore
	authz    *services.Authorizer
	sessions SessionStore
	menuURL  string
	log      logrus.FieldLogger
	locks    userLocks
}

func NewHandler(api Sender, bookings *services.BookingService, prefs *services.PreferenceStore, authz *services.Authorizer, sessions SessionStore, menuURL string, log logrus.FieldLogger) *Handler {
	return &Handler{
		api:      api,
		bookings: bookings,
		prefs:    prefs,
		authz:    authz,
		sessions: sessions,
		menuURL:  menuURL,
		log:      log,
		locks:    userLocks{m: make(map[int64]*userLock)},
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.MyChatMember != nil:
		h.guardMembership(update.MyChatMember)
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || h.leaveForeignGroup(msg.Chat) || !h.servesChat(msg.Chat) {
			return
		}
		unlock := h.locks.lock(msg.From.ID)
		defer unlock()
		h.handleMessage(ctx, msg)
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.From == nil {
			return
		}
		if cb.Message == nil || cb.Message.Chat == nil || !h.servesChat(cb.Message.Chat) {
			h.answer(cb.ID, "")
			return
		}
		unlock := h.locks.lock(cb.From.ID)
		defer unlock()
		h.handleCallback(ctx, cb)
	}
}

// servesChat limits the bot to private chats and the admin chat.
func (h *Handler) servesChat(chat *tgbotapi.Chat) bool {
	return chat.IsPrivate() || (h.authz.AdminChatID() != 0 && chat.ID == h.authz.AdminChatID())
}

func isGroup(chat tgbotapi.Chat) bool {
	return chat.Type == string(services.ChatGroup) || chat.Type == string(services.ChatSupergroup)
}

// leaveForeignGroup makes the bot leave any group other than the admin
// chat and reports whether it did.
func (h *Handler) leaveForeignGroup(chat *tgbotapi.Chat) bool {
	if !isGroup(*chat) || chat.ID == h.authz.AdminChatID() {
		return false
	}
	h.leave(chat.ID)
	return true
}

func (h *Handler) guardMembership(ev *tgbotapi.ChatMemberUpdated) {
	if !isGroup(ev.Chat) || ev.Chat.ID == h.authz.AdminChatID() {
		return
	}
	switch ev.NewChatMember.Status {
	case "member", "administrator":
		h.leave(ev.Chat.ID)
	}
}

func (h *Handler) leave(chatID int64) {
	if _, err := h.api.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Warn("failed to leave chat")
		return
	}
	h.log.WithField("chat_id", chatID).Info("left foreign group")
}

func actorOf(user *tgbotapi.User, chat *tgbotapi.Chat) services.Actor {
	return services.Actor{UserID: user.ID, ChatID: chat.ID, Chat: services.ChatKind(chat.Type)}
}

func (h *Handler) language(ctx context.Context, user *tgbotapi.User) string {
	return h.prefs.LanguageOr(ctx, user.ID, i18n.PickDefault(user.LanguageCode))
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	lang := h.language(ctx, msg.From)
	actor := actorOf(msg.From, msg.Chat)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.start(ctx, msg, actor)
		case "book":
			h.startBooking(ctx, msg, lang)
		case "lang":
			h.askLanguage(msg.Chat.ID, lang)
		case "id":
			h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyChatID, "id", strconv.FormatInt(msg.Chat.ID, 10)), nil)
		case "whoami":
			h.whoami(msg, lang)
		case "admin":
			h.adminPanel(ctx, msg, actor, lang)
		case "del":
			h.deleteCommand(ctx, msg, actor, lang)
		}
		return
	}

	text := msg.Text
	switch {
	case i18n.IsAny(text, i18n.KeyBtnCancel):
		h.cancel(ctx, msg, actor, lang)
		return
	case i18n.IsAny(text, i18n.KeyBtnBook):
		h.startBooking(ctx, msg, lang)
		return
	case i18n.IsAny(text, i18n.KeyBtnMenu):
		h.showMenu(msg.Chat.ID, lang)
		return
	case i18n.IsAny(text, i18n.KeyBtnChangeLang):
		h.askLanguage(msg.Chat.ID, lang)
		return
	case i18n.IsAny(text, i18n.KeyBtnAdminPanel):
		h.adminPanel(ctx, msg, actor, lang)
		return
	}

	session, err := h.sessions.Get(ctx, msg.From.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", msg.From.ID).Error("failed to load session")
		h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyErrGeneric), nil)
		return
	}
	switch session.Step {
	case StepIdle:
		return
	case StepDeleteID:
		h.deleteByTypedID(ctx, msg, actor, lang, session)
		return
	}
	h.advance(ctx, msg, actor, lang, session)
}

func (h *Handler) start(ctx context.Context, msg *tgbotapi.Message, actor services.Actor) {
	if err := h.sessions.Clear(ctx, msg.From.ID); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}

	lang, known, err := h.prefs.Language(ctx, msg.From.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", msg.From.ID).Error("failed to read language")
	}
	if !known {
		lang = i18n.PickDefault(msg.From.LanguageCode)
		if err == nil {
			if err := h.prefs.SetLanguage(ctx, msg.From.ID, lang); err != nil {
				h.log.WithError(err).WithField("user_id", msg.From.ID).Error("failed to store language")
			}
		}
	}

	h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyStart, "btn_book", i18n.T(lang, i18n.KeyBtnBook)), mainKeyboard(lang, h.authz.CanAdmin(actor)))
	if !known {
		h.askLanguage(msg.Chat.ID, lang)
	}
	h.refreshCommands(msg.From.ID, lang)
}

func (h *Handler) refreshCommands(userID int64, lang string) {
	if err := setChatCommands(h.api, userID, lang, h.authz.IsStaff(userID)); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Warn("failed to set chat commands")
	}
}

func (h *Handler) askLanguage(chatID int64, lang string) {
	h.reply(chatID, i18n.T(lang, i18n.KeyChooseLang), languageKeyboard())
}

func (h *Handler) showMenu(chatID int64, lang string) {
	if h.menuURL == "" {
		h.reply(chatID, i18n.T(lang, i18n.KeyMenuEmpty), nil)
		return
	}
	h.reply(chatID, i18n.T(lang, i18n.KeyMenu, "url", h.menuURL), nil)
}

func (h *Handler) whoami(msg *tgbotapi.Message, lang string) {
	username := msg.From.UserName
	if username == "" {
		username = "—"
	}
	name := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	text := i18n.T(lang, i18n.KeyWhoami,
		"user_id", strconv.FormatInt(msg.From.ID, 10),
		"chat_id", strconv.FormatInt(msg.Chat.ID, 10),
		"username", username,
		"name", name,
	)
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	h.send(out)
}

func (h *Handler) startBooking(ctx context.Context, msg *tgbotapi.Message, lang string) {
	if err := h.sessions.Save(ctx, NewSession(msg.From.ID)); err != nil {
		h.log.WithError(err).WithField("user_id", msg.From.ID).Error("failed to start session")
		h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyErrGeneric), nil)
		return
	}
	h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyAskDate), cancelKeyboard(lang))
}

func (h *Handler) cancel(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string) {
	if err := h.sessions.Clear(ctx, msg.From.ID); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyCancelled), mainKeyboard(lang, h.authz.CanAdmin(actor)))
}

func (h *Handler) advance(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string, session Session) {
	out := Advance(session, msg.Text, h.bookings.Parser())

	switch out.Effect {
	case EffectFindTables:
		s := out.Session
		free, err := h.bookings.FindFreeTables(ctx, s.Date, s.StartTime, s.PartySize)
		if err != nil {
			h.log.WithError(err).WithField("user_id", msg.From.ID).Error("failed to look up free tables")
			h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyErrGeneric), nil)
			return
		}
		out = OfferTables(s, free)
		if !h.saveSession(ctx, msg.Chat.ID, lang, out.Session) {
			return
		}
		if len(free) == 0 {
			h.reply(msg.Chat.ID, i18n.T(lang, out.Reply), nil)
			return
		}
		h.reply(msg.Chat.ID, i18n.T(lang, out.Reply), tablesKeyboard(lang, free))

	case EffectSubmit:
		h.submit(ctx, msg, actor, lang, out.Session)

	default:
		if !h.saveSession(ctx, msg.Chat.ID, lang, out.Session) {
			return
		}
		if out.Reply != "" {
			h.reply(msg.Chat.ID, i18n.T(lang, out.Reply, out.Args...), nil)
		}
	}
}

func (h *Handler) saveSession(ctx context.Context, chatID int64, lang string, s Session) bool {
	if err := h.sessions.Save(ctx, s); err != nil {
		h.log.WithError(err).WithField("user_id", s.UserID).Error("failed to save session")
		h.reply(chatID, i18n.T(lang, i18n.KeyErrGeneric), nil)
		return false
	}
	return true
}

func (h *Handler) submit(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string, s Session) {
	booking, err := h.bookings.Submit(ctx, s.Request(handleOf(msg.From)))
	if err != nil {
		out, ok := SubmitFailed(s, err)
		if !ok {
			// keep the phone step so the guest can send it again
			h.saveSession(ctx, msg.Chat.ID, lang, s)
			h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyErrGeneric), nil)
			return
		}
		if h.saveSession(ctx, msg.Chat.ID, lang, out.Session) {
			h.reply(msg.Chat.ID, i18n.T(lang, out.Reply, out.Args...), nil)
		}
		return
	}

	if err := h.sessions.Clear(ctx, msg.From.ID); err != nil {
		h.log.WithError(err).WithField("booking_id", booking.ID).Warn("failed to clear session")
	}
	h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyThanks), mainKeyboard(lang, h.authz.CanAdmin(actor)))
}

func handleOf(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return strconv.FormatInt(user.ID, 10)
}

func (h *Handler) adminPanel(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string) {
	bookings, err := h.bookings.ListPage(ctx, actor, 0, services.FilterAll)
	if errors.Is(err, services.ErrUnauthorized) {
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to list bookings")
		h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyErrGeneric), nil)
		return
	}
	text, kb := adminPage(lang, 0, services.FilterAll, bookings)
	h.reply(msg.Chat.ID, text, kb)
	h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyReplyStub), mainKeyboard(lang, true))
}

func (h *Handler) deleteCommand(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string) {
	if !h.authz.CanAdmin(actor) {
		return
	}
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		s := Session{UserID: msg.From.ID, Step: StepDeleteID}
		if h.saveSession(ctx, msg.Chat.ID, lang, s) {
			h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyAskID), nil)
		}
		return
	}
	id, ok := parseBookingID(strings.Fields(args)[0])
	if !ok {
		h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyIDMustBeNumber), nil)
		return
	}
	h.deleteBooking(ctx, msg.Chat.ID, actor, lang, id)
}

func (h *Handler) deleteByTypedID(ctx context.Context, msg *tgbotapi.Message, actor services.Actor, lang string, s Session) {
	if !h.authz.CanAdmin(actor) {
		return
	}
	id, ok := parseBookingID(msg.Text)
	if !ok {
		h.reply(msg.Chat.ID, i18n.T(lang, i18n.KeyNeedNumber), nil)
		return
	}
	if err := h.sessions.Clear(ctx, s.UserID); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	h.deleteBooking(ctx, msg.Chat.ID, actor, lang, id)
}

func (h *Handler) deleteBooking(ctx context.Context, chatID int64, actor services.Actor, lang string, id uint) {
	deleted, err := h.bookings.Delete(ctx, id, actor)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return
	case err != nil:
		h.reply(chatID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	case deleted:
		h.reply(chatID, i18n.T(lang, i18n.KeyBookingDeleted, "id", strconv.FormatUint(uint64(id), 10)), nil)
	default:
		h.reply(chatID, i18n.T(lang, i18n.KeyBookingNotFound, "id", strconv.FormatUint(uint64(id), 10)), nil)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	lang := h.language(ctx, cb.From)
	actor := actorOf(cb.From, cb.Message.Chat)

	parsed, err := ParseCallback(cb.Data)
	if err != nil {
		h.log.WithField("data", cb.Data).Debug("ignoring callback")
		h.answer(cb.ID, "")
		return
	}

	switch c := parsed.(type) {
	case ChooseLanguage:
		h.chooseLanguage(ctx, cb, actor, c.Lang)
	case PickTable:
		h.pickTable(ctx, cb, lang, c.TableID)
	case SetStatus:
		h.setStatus(ctx, cb, actor, lang, c)
	case DeleteBooking:
		h.deleteFromButton(ctx, cb, actor, lang, c.BookingID)
	case AskDelete:
		if !h.authz.CanAdmin(actor) {
			h.answer(cb.ID, "")
			return
		}
		if h.saveSession(ctx, cb.Message.Chat.ID, lang, Session{UserID: cb.From.ID, Step: StepDeleteID}) {
			h.reply(cb.Message.Chat.ID, i18n.T(lang, i18n.KeyEnterBookingID), nil)
		}
		h.answer(cb.ID, "")
	case ShowPage:
		h.showPage(ctx, cb, actor, lang, c)
	case Noop:
		h.answer(cb.ID, "")
	}
}

func (h *Handler) chooseLanguage(ctx context.Context, cb *tgbotapi.CallbackQuery, actor services.Actor, lang string) {
	chatID := cb.Message.Chat.ID
	if err := h.prefs.SetLanguage(ctx, cb.From.ID, lang); err != nil {
		h.log.WithError(err).WithField("user_id", cb.From.ID).Error("failed to store language")
		h.answer(cb.ID, i18n.T(lang, i18n.KeyErrGeneric))
		return
	}
	h.clearMarkup(chatID, cb.Message.MessageID)
	h.reply(chatID, i18n.T(lang, i18n.KeyLangSet), nil)
	h.reply(chatID, i18n.T(lang, i18n.KeyStart, "btn_book", i18n.T(lang, i18n.KeyBtnBook)), mainKeyboard(lang, h.authz.CanAdmin(actor)))
	h.refreshCommands(cb.From.ID, lang)
	h.answer(cb.ID, "")
}

func (h *Handler) pickTable(ctx context.Context, cb *tgbotapi.CallbackQuery, lang string, tableID uint) {
	chatID := cb.Message.Chat.ID
	session, err := h.sessions.Get(ctx, cb.From.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", cb.From.ID).Error("failed to load session")
		h.answer(cb.ID, i18n.T(lang, i18n.KeyErrGeneric))
		return
	}
	out, ok := ChooseTable(session, tableID)
	if !ok {
		h.answer(cb.ID, "")
		return
	}
	if !h.saveSession(ctx, chatID, lang, out.Session) {
		h.answer(cb.ID, "")
		return
	}
	h.clearMarkup(chatID, cb.Message.MessageID)
	h.reply(chatID, i18n.T(lang, out.Reply), nil)
	h.answer(cb.ID, "")
}

func (h *Handler) setStatus(ctx context.Context, cb *tgbotapi.CallbackQuery, actor services.Actor, lang string, c SetStatus) {
	var (
		booking *models.Booking
		changed bool
		err     error
	)
	if c.Status == models.StatusConfirmed {
		booking, changed, err = h.bookings.Confirm(ctx, c.BookingID, actor)
	} else {
		booking, changed, err = h.bookings.Cancel(ctx, c.BookingID, actor)
	}

	id := strconv.FormatUint(uint64(c.BookingID), 10)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		h.answer(cb.ID, "")
		return
	case errors.Is(err, services.ErrNotFound):
		h.alert(cb.ID, i18n.T(lang, i18n.KeyBookingNotFound, "id", id))
		return
	case err != nil:
		h.alert(cb.ID, i18n.T(lang, i18n.KeyErrGeneric))
		return
	case !changed:
		h.answer(cb.ID, i18n.T(lang, i18n.KeyBookingStatusKept, "status", string(booking.Status)))
		return
	}

	if c.FromNotice {
		note := i18n.KeyAdminNoteConfirmed
		if c.Status == models.StatusCancelled {
			note = i18n.KeyAdminNoteCancelled
		}
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, cb.Message.Text+"\n\n"+i18n.T(lang, note))
		h.edit(edit)
		h.answer(cb.ID, i18n.T(lang, i18n.KeyOK))
		return
	}
	done := i18n.KeyDoneConfirmed
	if c.Status == models.StatusCancelled {
		done = i18n.KeyDoneCancelled
	}
	h.answer(cb.ID, i18n.T(lang, done))
}

func (h *Handler) deleteFromButton(ctx context.Context, cb *tgbotapi.CallbackQuery, actor services.Actor, lang string, id uint) {
	deleted, err := h.bookings.Delete(ctx, id, actor)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		h.answer(cb.ID, "")
	case err != nil:
		h.alert(cb.ID, i18n.T(lang, i18n.KeyErrGeneric))
	case !deleted:
		h.alert(cb.ID, i18n.T(lang, i18n.KeyBookingNotFound, "id", strconv.FormatUint(uint64(id), 10)))
	default:
		h.answer(cb.ID, i18n.T(lang, i18n.KeyDoneDeleted))
	}
}

func (h *Handler) showPage(ctx context.Context, cb *tgbotapi.CallbackQuery, actor services.Actor, lang string, c ShowPage) {
	bookings, err := h.bookings.ListPage(ctx, actor, c.Page, c.Filter)
	if errors.Is(err, services.ErrUnauthorized) {
		h.answer(cb.ID, "")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to list bookings")
		h.alert(cb.ID, i18n.T(lang, i18n.KeyErrGeneric))
		return
	}
	text, kb := adminPage(lang, c.Page, c.Filter, bookings)
	h.edit(tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))

	if c.FilterPicked {
		h.answer(cb.ID, i18n.T(lang, i18n.KeyAdminStatusLabel)+" ✓")
		return
	}
	h.answer(cb.ID, "")
}

func (h *Handler) reply(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	h.send(msg)
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).WithField("chat_id", msg.ChatID).Warn("failed to send message")
	}
}

func (h *Handler) edit(c tgbotapi.Chattable) {
	if _, err := h.api.Request(c); err != nil && !isNotModified(err) {
		h.log.WithError(err).Warn("failed to edit message")
	}
}

func (h *Handler) clearMarkup(chatID int64, messageID int) {
	h.edit(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, emptyInlineKeyboard()))
}

func (h *Handler) answer(callbackID, text string) {
	if _, err := h.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.log.WithError(err).Debug("failed to answer callback")
	}
}

func (h *Handler) alert(callbackID, text string) {
	if _, err := h.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		h.log.WithError(err).Debug("failed to answer callback")
	}
}

type userLock struct {
	sync.Mutex
	refs int
}

// userLocks hands out one mutex per user and forgets it once nobody
// holds or waits for it.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*userLock
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.m[userID]
	if !ok {
		ul = &userLock{}
		l.m[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.m, userID)
		}
		l.mu.Unlock()
	}
}
