package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/middlewares"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
	Hub      *hub.Hub
}

func NewBookingController(bookings *services.BookingService, feed *hub.Hub) *BookingController {
	return &BookingController{Bookings: bookings, Hub: feed}
}

type errInvalidID string

func (e errInvalidID) Error() string { return fmt.Sprintf("invalid %s", string(e)) }

type createBookingRequest struct {
	RequesterID int64  `json:"requester_id"`
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	PartySize   int    `json:"party_size" binding:"required"`
	TableID     uint   `json:"table_id"`
}

// GetBookings lists one page, newest first. Query: page (from 0) and
// status (all, new, confirmed, cancelled).
func (bc *BookingController) GetBookings(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", errInvalidID("page"))
		return
	}
	filter, ok := services.ParseStatusFilter(c.DefaultQuery("status", "all"))
	if !ok {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", errInvalidID("status"))
		return
	}

	bookings, err := bc.Bookings.ListPage(c.Request.Context(), middlewares.ActorFrom(c), page, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", gin.H{
		"page":     page,
		"status":   filter,
		"bookings": bookings,
	})
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := idParam(c, "booking_id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(c.Request.Context(), id, middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking found", booking)
}

// CreateBooking takes a reservation on behalf of a guest, for example
// one made by phone. Without requester_id the staff member is recorded
// as the requester.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", err)
		return
	}

	actor := middlewares.ActorFrom(c)
	parser := bc.Bookings.Parser()
	date, err := parser.Date(req.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	start, err := parser.Time(req.Time)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requester := req.RequesterID
	if requester == 0 {
		requester = actor.UserID
	}

	booking, err := bc.Bookings.Submit(c.Request.Context(), services.BookingRequest{
		RequesterID:      requester,
		Name:             req.Name,
		Phone:            req.Phone,
		Date:             date,
		StartTime:        start,
		PartySize:        req.PartySize,
		PreferredTableID: req.TableID,
		RequesterHandle:  fmt.Sprintf("staff:%d", actor.UserID),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Booking created successfully", booking)
}

func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	bc.transition(c, bc.Bookings.Confirm)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	bc.transition(c, bc.Bookings.Cancel)
}

type transitionFunc func(ctx context.Context, id uint, actor services.Actor) (*models.Booking, bool, error)

func (bc *BookingController) transition(c *gin.Context, fn transitionFunc) {
	id, ok := idParam(c, "booking_id")
	if !ok {
		return
	}
	booking, changed, err := fn(c.Request.Context(), id, middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	message := "Booking status updated"
	if !changed {
		message = "Booking status unchanged"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{"changed": changed, "booking": booking})
}

func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c, "booking_id")
	if !ok {
		return
	}
	deleted, err := bc.Bookings.Delete(c.Request.Context(), id, middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		respondServiceError(c, services.ErrNotFound)
		return
	}
	bc.Hub.BroadcastBookingDeleted(id)
	utils.RespondJSON(c, http.StatusOK, "Booking deleted successfully", nil)
}

// GetAvailability lists the free tables for date, time and guests.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	parser := bc.Bookings.Parser()
	date, err := parser.Date(c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	start, err := parser.Time(c.Query("time"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	guests, err := parser.Guests(c.Query("guests"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tables, err := bc.Bookings.FindFreeTables(c.Request.Context(), date, start, guests)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Free tables", tables)
}
