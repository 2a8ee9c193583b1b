package router

import (
	"github.com/VitalijsFilipovs/booking-bot/controllers"
	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/middlewares"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the services the HTTP surface is built from. A nil Tokens
// leaves the admin API unmounted.
type Deps struct {
	DB            *gorm.DB
	Log           logrus.FieldLogger
	Bookings      *services.BookingService
	Tables        *services.TableRegistry
	Authz         *services.Authorizer
	Hub           *hub.Hub
	Tokens        *utils.TokenIssuer
	Updates       controllers.UpdateHandler
	WebhookSecret string
	RateLimiter   *middlewares.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(d.Log))
	r.Use(middlewares.SecurityHeaders())

	healthCtrl := controllers.NewHealthController(d.DB)
	webhookCtrl := controllers.NewWebhookController(d.Updates, d.WebhookSecret, d.Log)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/", healthCtrl.Root)
	r.HEAD("/", healthCtrl.Root)
	r.GET("/health", healthCtrl.Root)
	r.GET("/healthz", healthCtrl.Health)

	r.POST("/webhook/:secret", webhookCtrl.Receive)

	if d.Tokens == nil {
		return r
	}

	// ----------------------------------------------------------------
	//                      ADMIN API
	// ----------------------------------------------------------------
	bookingCtrl := controllers.NewBookingController(d.Bookings, d.Hub)
	tableCtrl := controllers.NewTableController(d.Tables, d.Hub, d.Log)
	feedCtrl := controllers.NewFeedController(d.Hub)

	// The webhook stays unlimited: every update arrives from Telegram's
	// few addresses, a per-IP limit there would throttle all guests at once.
	auth := r.Group("/api/admin")
	if d.RateLimiter != nil {
		auth.Use(d.RateLimiter.RateLimit())
	}
	auth.Use(middlewares.AuthMiddleware(d.Tokens, d.Authz))

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTableActive)

	// BOOKINGS
	auth.GET("/availability", bookingCtrl.GetAvailability)
	auth.GET("/bookings", bookingCtrl.GetBookings)
	auth.POST("/bookings", bookingCtrl.CreateBooking)
	auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	auth.POST("/bookings/:booking_id/confirm", bookingCtrl.ConfirmBooking)
	auth.POST("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)
	auth.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)

	// live feed
	auth.GET("/ws", feedCtrl.Feed)

	return r
}
