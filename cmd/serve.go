package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/bot"
	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/middlewares"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/router"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

const tokenTTL = 12 * time.Hour

func newServeCmd(envFile *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Register the webhook and serve the bot and the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.log
			gin.SetMode(cfg.GinMode)

			if seed {
				n, err := a.tables.Seed(ctx, models.DefaultTables())
				if err != nil {
					return err
				}
				if n > 0 {
					log.WithField("count", n).Info("seeded default tables")
				}
			}

			var sessions bot.SessionStore
			if cfg.RedisURL != "" {
				client, err := bot.NewRedisClient(ctx, cfg.RedisURL)
				if err != nil {
					return err
				}
				defer client.Close()
				sessions = bot.NewRedisSessionStore(client, bot.DefaultSessionTTL)
				log.Info("conversation state kept in redis")
			} else {
				sessions = bot.NewMemorySessionStore()
				log.Warn("REDIS_URL not set, conversation state is lost on restart")
			}

			api, err := tgbotapi.NewBotAPI(cfg.BotToken)
			if err != nil {
				return err
			}
			log.WithField("username", api.Self.UserName).Info("authorized on Telegram")

			feed := hub.New(log)
			sinks := []services.Sink{bot.NewNotifier(api, a.prefs, cfg.AdminChatID, log), feed}
			if len(cfg.KafkaBrokers) > 0 {
				kafka, err := services.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log)
				if err != nil {
					return err
				}
				defer kafka.Close()
				sinks = append(sinks, kafka)
			}

			dispatcher := services.NewOutboxDispatcher(a.db, log, sinks...)
			dispatcher.Interval = cfg.NotifyInterval
			dispatcher.MaxAttempts = cfg.NotifyMaxAttempts
			dispatcher.Start()
			defer dispatcher.Stop()

			var tokens *utils.TokenIssuer
			if cfg.JWTSecret != "" {
				if tokens, err = utils.NewTokenIssuer(cfg.JWTSecret, tokenTTL); err != nil {
					return err
				}
			} else {
				log.Warn("JWT_SECRET not set, admin API disabled")
			}

			handler := bot.NewHandler(api, a.bookings, a.prefs, a.authz, sessions, cfg.MenuURL, log)
			r := router.SetupRouter(router.Deps{
				DB:            a.db,
				Log:           log,
				Bookings:      a.bookings,
				Tables:        a.tables,
				Authz:         a.authz,
				Hub:           feed,
				Tokens:        tokens,
				Updates:       handler,
				WebhookSecret: strings.Trim(cfg.WebhookSecretPath, "/"),
				RateLimiter:   middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
			})

			if err := bot.RegisterDefaultCommands(api); err != nil {
				log.WithError(err).Warn("failed to register bot commands")
			}
			if err := bot.RegisterWebhook(api, cfg.WebhookURL()); err != nil {
				return err
			}
			log.WithField("path", cfg.WebhookPath()).Info("webhook registered")
			defer func() {
				if err := bot.DeleteWebhook(api); err != nil {
					log.WithError(err).Warn("failed to delete webhook")
				}
			}()

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.WithField("port", cfg.Port).Info("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			log.Info("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "add the default floor plan to an empty table registry")
	return cmd
}
