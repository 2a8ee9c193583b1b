package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/sirupsen/logrus"
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

// bookingDay is a date after testNow that tests book on.
var bookingDay = models.Date{Year: 2026, Month: time.October, Day: 20}

// setupTestDB opens a private in-memory SQLite database. One connection
// keeps transactions serialized the way the production pool does.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Table{},
		&models.UserPreference{},
		&models.Booking{},
		&models.OutboxEvent{},
	))
	return db
}

func testPolicy() BookingPolicy {
	p := DefaultPolicy()
	p.Location = time.UTC
	p.PageSize = 3
	return p
}

type fixture struct {
	db      *gorm.DB
	tables  *TableRegistry
	store   *BookingStore
	engine  *AvailabilityEngine
	authz   *Authorizer
	service *BookingService
	hook    *test.Hook

	terrace, hall, vip models.Table
}

// newFixture seeds a two seat terrace, a four seat hall and a six seat
// VIP table.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	f := &fixture{db: db, hook: hook}
	f.tables = NewTableRegistry(db)
	f.store = NewBookingStore(db)
	f.engine = NewAvailabilityEngine(db, f.tables, f.store)
	f.authz = NewAuthorizer([]int64{staffID}, adminChatID)
	f.service = NewBookingService(f.store, f.engine, f.authz, NewFieldParser(testPolicy(), func() time.Time { return testNow }), log)

	f.hall = f.addTable(t, "Зал №1", 4)
	f.terrace = f.addTable(t, "Терраса", 2)
	f.vip = f.addTable(t, "VIP", 6)
	return f
}

func (f *fixture) addTable(t *testing.T, title string, seats int) models.Table {
	t.Helper()
	table, err := f.tables.Add(t.Context(), title, seats)
	require.NoError(t, err)
	return *table
}

// book stores a booking directly, bypassing availability.
func (f *fixture) book(t *testing.T, table models.Table, start models.ClockTime, guests int, status models.BookingStatus) models.Booking {
	t.Helper()
	b := models.Booking{
		RequesterID:     guestID,
		Name:            "Anna",
		Phone:           "+37120000000",
		Date:            bookingDay,
		StartTime:       start,
		DurationMinutes: models.DefaultDurationMinutes,
		PartySize:       guests,
		TableID:         &table.ID,
		Status:          status,
	}
	require.NoError(t, f.store.Create(t.Context(), &b))
	return b
}

func (f *fixture) request(start models.ClockTime, guests int) BookingRequest {
	return BookingRequest{
		RequesterID:     guestID,
		Name:            "Anna",
		Phone:           "+37120000000",
		Date:            bookingDay,
		StartTime:       start,
		PartySize:       guests,
		RequesterHandle: "@anna",
	}
}

func staff() Actor {
	return ConsoleActor(staffID)
}

func at(hour, minute int) models.ClockTime {
	return models.NewClockTime(hour, minute)
}

func outboxEvents(t *testing.T, db *gorm.DB) []models.OutboxEvent {
	t.Helper()
	var events []models.OutboxEvent
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	return events
}
