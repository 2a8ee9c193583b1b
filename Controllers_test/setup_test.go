package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/router"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	staffID       int64 = 100
	guestID       int64 = 7
	webhookSecret       = "s3cret"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// setupTestDB opens a SQLite in-memory database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", name)), &gorm.Config{
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

// recordingUpdates stands in for the bot behind the webhook.
type recordingUpdates struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
	ctxErr  error
}

func (r *recordingUpdates) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
	r.ctxErr = ctx.Err()
}

// feedConn records what the live feed pushes.
type feedConn struct {
	mu       sync.Mutex
	messages []hub.Message
}

func (f *feedConn) SetWriteDeadline(time.Time) error { return nil }

func (f *feedConn) WriteMessage(_ int, data []byte) error {
	var msg hub.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *feedConn) Close() error { return nil }

func (f *feedConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.messages {
		out = append(out, m.Event)
	}
	return out
}

type apiFixture struct {
	db      *gorm.DB
	router  *gin.Engine
	tables  *services.TableRegistry
	store   *services.BookingStore
	updates *recordingUpdates
	feed    *feedConn
	hub     *hub.Hub
	token   string
	issuer  *utils.TokenIssuer
}

// newAPIFixture builds the router over a seeded database; opts adjust
// the dependencies before the routes are mounted.
func newAPIFixture(t *testing.T, opts ...func(*router.Deps)) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	log, _ := test.NewNullLogger()

	policy := services.DefaultPolicy()
	policy.Location = time.UTC
	parser := services.NewFieldParser(policy, func() time.Time { return testNow })

	tables := services.NewTableRegistry(db)
	_, err := tables.Seed(t.Context(), models.DefaultTables())
	require.NoError(t, err)
	store := services.NewBookingStore(db)
	authz := services.NewAuthorizer([]int64{staffID}, -500)
	bookings := services.NewBookingService(store, services.NewAvailabilityEngine(db, tables, store), authz, parser, log)

	issuer, err := utils.NewTokenIssuer("jwt-secret", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Generate(staffID, "staff")
	require.NoError(t, err)

	feed := hub.New(log)
	conn := &feedConn{}
	feed.Register(conn, staffID)
	updates := &recordingUpdates{}

	deps := router.Deps{
		DB:            db,
		Log:           log,
		Bookings:      bookings,
		Tables:        tables,
		Authz:         authz,
		Hub:           feed,
		Tokens:        issuer,
		Updates:       updates,
		WebhookSecret: webhookSecret,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	r := router.SetupRouter(deps)
	return &apiFixture{
		db:      db,
		router:  r,
		tables:  tables,
		store:   store,
		updates: updates,
		feed:    conn,
		hub:     feed,
		token:   token,
		issuer:  issuer,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends an authenticated request; body is marshalled to JSON unless
// it is already a string.
func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return f.doAs(t, f.token, method, path, body)
}

func (f *apiFixture) doAs(t *testing.T, token, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (f *apiFixture) tableByTitle(t *testing.T, title string) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, f.db.Where("title = ?", title).First(&table).Error)
	return table
}
