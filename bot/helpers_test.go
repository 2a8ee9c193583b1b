package bot

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	staffID     int64 = 100
	guestID     int64 = 7
	adminChatID int64 = -500
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// fakeSender records everything the bot sends to Telegram.
type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	require.NotEmpty(t, msgs, "no message sent")
	return msgs[len(msgs)-1]
}

func (f *fakeSender) callbackAnswers() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (f *fakeSender) lastAnswer(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	answers := f.callbackAnswers()
	require.NotEmpty(t, answers, "callback not answered")
	return answers[len(answers)-1]
}

func (f *fakeSender) requestsOf(match func(tgbotapi.Chattable) bool) []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.Chattable
	for _, c := range f.requests {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:bot_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Table{}, &models.UserPreference{}, &models.Booking{}, &models.OutboxEvent{}))
	return db
}

func testParser() services.FieldParser {
	policy := services.DefaultPolicy()
	policy.Location = time.UTC
	return services.NewFieldParser(policy, func() time.Time { return testNow })
}

type fixture struct {
	db       *gorm.DB
	api      *fakeSender
	prefs    *services.PreferenceStore
	bookings *services.BookingService
	store    *services.BookingStore
	sessions *MemorySessionStore
	handler  *Handler
	tables   []models.Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	log, _ := test.NewNullLogger()

	registry := services.NewTableRegistry(db)
	_, err := registry.Seed(t.Context(), models.DefaultTables())
	require.NoError(t, err)
	tables, err := registry.List(t.Context())
	require.NoError(t, err)

	store := services.NewBookingStore(db)
	engine := services.NewAvailabilityEngine(db, registry, store)
	authz := services.NewAuthorizer([]int64{staffID}, adminChatID)
	bookings := services.NewBookingService(store, engine, authz, testParser(), log)
	prefs := services.NewPreferenceStore(db)
	api := &fakeSender{}
	sessions := NewMemorySessionStore()

	return &fixture{
		db:       db,
		api:      api,
		prefs:    prefs,
		bookings: bookings,
		store:    store,
		sessions: sessions,
		handler:  NewHandler(api, bookings, prefs, authz, sessions, "https://example.com/menu", log),
		tables:   tables,
	}
}

// tableByTitle finds one of the seeded tables.
func (f *fixture) tableByTitle(t *testing.T, title string) models.Table {
	t.Helper()
	for _, table := range f.tables {
		if table.Title == title {
			return table
		}
	}
	t.Fatalf("no table %q", title)
	return models.Table{}
}

func privateChat(userID int64) *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: userID, Type: "private"}
}

func adminChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: adminChatID, Type: "supergroup"}
}

func user(id int64) *tgbotapi.User {
	return &tgbotapi.User{ID: id, FirstName: "Anna", UserName: "anna", LanguageCode: "ru"}
}

func textUpdate(from int64, chat *tgbotapi.Chat, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{MessageID: 1, From: user(from), Chat: chat, Text: text}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(from int64, chat *tgbotapi.Chat, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    user(from),
		Message: &tgbotapi.Message{MessageID: 77, Chat: chat, Text: "notice"},
		Data:    data,
	}}
}

func (f *fixture) say(t *testing.T, from int64, text string) {
	t.Helper()
	f.handler.HandleUpdate(t.Context(), textUpdate(from, privateChat(from), text))
}

func (f *fixture) press(t *testing.T, from int64, chat *tgbotapi.Chat, cb Callback) {
	t.Helper()
	f.handler.HandleUpdate(t.Context(), callbackUpdate(from, chat, cb.Data()))
}
