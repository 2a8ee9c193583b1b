package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/sirupsen/logrus"
)

// BookingRequest is a completed reservation form.
type BookingRequest struct {
	RequesterID int64
	Name        string
	Phone       string
	Date        models.Date
	StartTime   models.ClockTime
	PartySize   int

	// PreferredTableID is the table the guest picked, if any. It is used
	// only while it is still free, otherwise the first candidate wins.
	PreferredTableID uint
	// RequesterHandle is shown to the admins next to the booking.
	RequesterHandle string
}

// BookingService drives bookings through new, confirmed and cancelled,
// and checks the caller's rights on every admin operation.
type BookingService struct {
	store  *BookingStore
	engine *AvailabilityEngine
	authz  *Authorizer
	parser FieldParser
	log    logrus.FieldLogger
}

func NewBookingService(store *BookingStore, engine *AvailabilityEngine, authz *Authorizer, parser FieldParser, log logrus.FieldLogger) *BookingService {
	return &BookingService{
		store:  store,
		engine: engine,
		authz:  authz,
		parser: parser,
		log:    log,
	}
}

func (s *BookingService) Policy() BookingPolicy {
	return s.parser.Policy
}

func (s *BookingService) Parser() FieldParser {
	return s.parser
}

func (s *BookingService) slot(date models.Date, start models.ClockTime) models.Slot {
	return models.Slot{Date: date, Start: start, Duration: s.parser.Policy.duration()}
}

// FindFreeTables lists the tables a party could still take at date and
// start under the configured booking duration.
func (s *BookingService) FindFreeTables(ctx context.Context, date models.Date, start models.ClockTime, guests int) ([]models.Table, error) {
	return s.engine.FindFreeTables(ctx, s.slot(date, start), guests)
}

// Submit validates req, assigns a free table and stores the booking as
// new. The admin notification is staged in the same transaction.
func (s *BookingService) Submit(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if err := s.parser.validateRequest(req); err != nil {
		return nil, err
	}

	slot := s.slot(req.Date, req.StartTime)
	free, err := s.engine.FindFreeTables(ctx, slot, req.PartySize)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, ErrNoAvailability
	}
	table := pickTable(free, req.PreferredTableID)

	booking := &models.Booking{
		RequesterID:     req.RequesterID,
		Name:            strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: int(slot.Duration / time.Minute),
		PartySize:       req.PartySize,
		TableID:         &table.ID,
		Table:           &table,
		Status:          models.StatusNew,
	}

	entry := s.log.WithFields(logrus.Fields{
		"user_id":  req.RequesterID,
		"table_id": table.ID,
		"date":     req.Date.String(),
		"time":     req.StartTime.String(),
	})

	err = s.store.Create(ctx, booking, StageEvent(models.EventAdminNewBooking, req.RequesterHandle))
	switch {
	case err == nil:
	case errors.Is(err, ErrConflict), errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrTableNotFound):
		entry.WithError(err).Warn("lost booking race")
		return nil, fmt.Errorf("%w: %w", ErrNoAvailability, err)
	default:
		entry.WithError(err).Error("failed to create booking")
		return nil, err
	}

	entry.WithField("booking_id", booking.ID).Info("booking created")
	return booking, nil
}

func pickTable(free []models.Table, preferred uint) models.Table {
	if preferred != 0 {
		for _, t := range free {
			if t.ID == preferred {
				return t
			}
		}
	}
	return free[0]
}

func (s *BookingService) Confirm(ctx context.Context, id uint, actor Actor) (*models.Booking, bool, error) {
	return s.transition(ctx, id, actor, models.StatusConfirmed, models.EventUserConfirmed)
}

// Cancel is idempotent: cancelling a cancelled booking returns it
// unchanged with changed=false and sends nothing.
func (s *BookingService) Cancel(ctx context.Context, id uint, actor Actor) (*models.Booking, bool, error) {
	return s.transition(ctx, id, actor, models.StatusCancelled, models.EventUserCancelled)
}

func (s *BookingService) transition(ctx context.Context, id uint, actor Actor, status models.BookingStatus, kind models.EventKind) (*models.Booking, bool, error) {
	if !s.authz.CanAdmin(actor) {
		return nil, false, ErrUnauthorized
	}

	entry := s.log.WithFields(logrus.Fields{"booking_id": id, "user_id": actor.UserID, "status": status})
	booking, changed, err := s.store.SetStatus(ctx, id, status, StageEvent(kind, ""))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			entry.WithError(err).Error("failed to update booking status")
		}
		return nil, false, err
	}
	if changed {
		entry.Info("booking status changed")
	} else {
		entry.WithField("current", booking.Status).Debug("status transition ignored")
	}
	return booking, changed, nil
}

// Delete removes a booking for good and reports whether it existed.
func (s *BookingService) Delete(ctx context.Context, id uint, actor Actor) (bool, error) {
	if !s.authz.CanAdmin(actor) {
		return false, ErrUnauthorized
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("booking_id", id).Error("failed to delete booking")
		return false, err
	}
	if deleted {
		s.log.WithFields(logrus.Fields{"booking_id": id, "user_id": actor.UserID}).Info("booking deleted")
	}
	return deleted, nil
}

func (s *BookingService) ListPage(ctx context.Context, actor Actor, page int, filter StatusFilter) ([]models.Booking, error) {
	if !s.authz.CanAdmin(actor) {
		return nil, ErrUnauthorized
	}
	return s.store.List(ctx, page, s.parser.Policy.PageSize, filter)
}

func (s *BookingService) Get(ctx context.Context, id uint, actor Actor) (*models.Booking, error) {
	if !s.authz.CanAdmin(actor) {
		return nil, ErrUnauthorized
	}
	return s.store.Get(ctx, id)
}
