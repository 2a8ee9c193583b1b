// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BotToken     string `envconfig:"BOT_TOKEN"`
	AdminChatID  int64  `envconfig:"ADMIN_CHAT_ID"`
	AdminUserID  int64  `envconfig:"ADMIN_USER_ID"`
	StaffUserIDs string `envconfig:"STAFF_USER_IDS"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBMaxConns  int    `envconfig:"DB_MAX_CONNS" default:"5"`

	WebhookBaseURL    string `envconfig:"WEBHOOK_BASE_URL"`
	WebhookSecretPath string `envconfig:"WEBHOOK_SECRET_PATH" default:"hook"`
	MenuURL           string `envconfig:"MENU_URL"`
	Port              string `envconfig:"PORT" default:"10000"`
	GinMode           string `envconfig:"GIN_MODE" default:"release"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	Timezone              string `envconfig:"TIMEZONE" default:"Europe/Riga"`
	OpenTime              string `envconfig:"OPEN_TIME" default:"10:00"`
	CloseTime             string `envconfig:"CLOSE_TIME" default:"22:00"`
	BookingDurationMin    int    `envconfig:"BOOKING_DURATION_MIN" default:"120"`
	AdminPageSize         int    `envconfig:"ADMIN_PAGE_SIZE" default:"10"`
	RequireEndBeforeClose bool   `envconfig:"REQUIRE_END_BEFORE_CLOSE" default:"false"`

	RedisURL     string   `envconfig:"REDIS_URL"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"booking-events"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	NotifyInterval    time.Duration `envconfig:"NOTIFY_INTERVAL" default:"1s"`
	NotifyMaxAttempts int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"3"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

// Load reads .env when present, then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// ValidateStorage checks what commands touching only the database need.
func (c *Config) ValidateStorage() error {
	var errs []error
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks everything the bot server needs to start.
func (c *Config) Validate() error {
	errs := []error{c.ValidateStorage()}
	if strings.TrimSpace(c.BotToken) == "" {
		errs = append(errs, errors.New("BOT_TOKEN is not set"))
	}
	if c.AdminChatID == 0 {
		errs = append(errs, errors.New("ADMIN_CHAT_ID is not set"))
	}
	if _, err := ParseIDs(c.StaffUserIDs); err != nil {
		errs = append(errs, err)
	} else if len(c.StaffIDs()) == 0 {
		errs = append(errs, errors.New("no staff configured: set ADMIN_USER_ID or STAFF_USER_IDS"))
	}
	if strings.TrimSpace(c.WebhookBaseURL) == "" {
		errs = append(errs, errors.New("WEBHOOK_BASE_URL is not set"))
	}
	return errors.Join(errs...)
}

// ParseIDs reads a list of user ids separated by commas or semicolons.
func ParseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q in STAFF_USER_IDS", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// StaffIDs is STAFF_USER_IDS plus ADMIN_USER_ID. Invalid entries are
// skipped; Validate reports them.
func (c *Config) StaffIDs() []int64 {
	ids, _ := ParseIDs(c.StaffUserIDs)
	if c.AdminUserID != 0 {
		ids = append(ids, c.AdminUserID)
	}
	return ids
}

func (c *Config) WebhookPath() string {
	return "/webhook/" + strings.Trim(c.WebhookSecretPath, "/")
}

func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.WebhookBaseURL, "/") + c.WebhookPath()
}

func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Policy builds the booking rules from the opening hours settings.
func (c *Config) Policy() (services.BookingPolicy, error) {
	p := services.DefaultPolicy()
	open, err := models.ParseClockTime(c.OpenTime)
	if err != nil {
		return p, fmt.Errorf("invalid OPEN_TIME %q: %w", c.OpenTime, err)
	}
	closing, err := models.ParseClockTime(c.CloseTime)
	if err != nil {
		return p, fmt.Errorf("invalid CLOSE_TIME %q: %w", c.CloseTime, err)
	}
	if closing < open {
		return p, fmt.Errorf("CLOSE_TIME %s is before OPEN_TIME %s", closing, open)
	}
	if c.BookingDurationMin <= 0 {
		return p, fmt.Errorf("BOOKING_DURATION_MIN must be positive, got %d", c.BookingDurationMin)
	}

	p.Open = open
	p.Close = closing
	p.DurationMinutes = c.BookingDurationMin
	p.RequireEndBeforeClose = c.RequireEndBeforeClose
	if c.AdminPageSize > 0 {
		p.PageSize = c.AdminPageSize
	}
	if loc, err := c.Location(); err == nil {
		p.Location = loc
	}
	return p, nil
}
