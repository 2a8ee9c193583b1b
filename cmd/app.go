package cmd

import (
	"github.com/VitalijsFilipovs/booking-bot/config"
	"github.com/VitalijsFilipovs/booking-bot/database"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app is the service graph shared by all commands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *gorm.DB
	authz    *services.Authorizer
	tables   *services.TableRegistry
	bookings *services.BookingService
	prefs    *services.PreferenceStore
}

func loadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// openApp connects to the database, migrates it and builds the services.
// The CLI commands only need storage settings; serve validates the rest.
func openApp(cfg *config.Config) (*app, error) {
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DatabaseURL, cfg.DBMaxConns, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}

	policy, err := cfg.Policy()
	if err != nil {
		database.Close(db)
		return nil, err
	}

	authz := services.NewAuthorizer(cfg.StaffIDs(), cfg.AdminChatID)
	tables := services.NewTableRegistry(db)
	store := services.NewBookingStore(db)
	engine := services.NewAvailabilityEngine(db, tables, store)
	parser := services.NewFieldParser(policy, nil)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		authz:    authz,
		tables:   tables,
		bookings: services.NewBookingService(store, engine, authz, parser, log),
		prefs:    services.NewPreferenceStore(db),
	}, nil
}

func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.log.WithError(err).Warn("failed to close database")
	}
}
