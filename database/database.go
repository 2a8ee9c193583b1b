// Package database opens the gorm connection and migrates the schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DefaultMaxConns = 5
	maxConns        = 5
)

var ErrUnsupportedDSN = errors.New("unsupported DATABASE_URL scheme")

// Dialector picks the gorm driver from the URL scheme: postgres:// and
// postgresql:// for PostgreSQL, mysql:// for MySQL, and sqlite://,
// file: or :memory: for SQLite.
func Dialector(dsn string) (gorm.Dialector, bool, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), false, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), false, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), true, nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return sqlite.Open(dsn), true, nil
	}
	return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedDSN, schemeOf(dsn))
}

func schemeOf(dsn string) string {
	if i := strings.Index(dsn, ":"); i > 0 {
		return dsn[:i]
	}
	return ""
}

// Open connects and sizes the pool. The pool holds 1 to 5 connections;
// SQLite always gets exactly one so that transactions serialize.
func Open(dsn string, conns int, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, isSQLite, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	conns = poolSize(conns, isSQLite)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(logrus.Fields{"driver": dialector.Name(), "max_conns": conns}).Info("database connected")
	return db, nil
}

func poolSize(n int, isSQLite bool) int {
	switch {
	case isSQLite:
		return 1
	case n <= 0:
		return DefaultMaxConns
	case n > maxConns:
		return maxConns
	}
	return n
}

// NewGormLogger sends gorm's slow query and error output to log.
func NewGormLogger(log logrus.FieldLogger) logger.Interface {
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Table{},
		&models.UserPreference{},
		&models.Booking{},
		&models.OutboxEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to AutoMigrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
