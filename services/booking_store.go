package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterNew       StatusFilter = "new"
	FilterConfirmed StatusFilter = "confirmed"
	FilterCancelled StatusFilter = "cancelled"
)

// StatusFilters lists the filters in the order the admin panel shows them.
var StatusFilters = []StatusFilter{FilterAll, FilterNew, FilterConfirmed, FilterCancelled}

func ParseStatusFilter(s string) (StatusFilter, bool) {
	if s == "" {
		return FilterAll, true
	}
	for _, f := range StatusFilters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f StatusFilter) status() (models.BookingStatus, bool) {
	if f == FilterAll || f == "" {
		return "", false
	}
	return models.BookingStatus(f), true
}

// TxHook runs inside a booking transaction after the row was written.
// Returning an error rolls the change back.
type TxHook func(tx *gorm.DB, booking *models.Booking) error

// BookingStore persists bookings and guards the no-overlap invariant.
type BookingStore struct {
	DB *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{DB: db}
}

// Create inserts booking. When a table is assigned the table row is
// locked first and the table's bookings for that date are re-checked,
// so two racing creates for one table cannot both pass the check.
func (s *BookingStore) Create(ctx context.Context, booking *models.Booking, hooks ...TxHook) error {
	if booking.Status == "" {
		booking.Status = models.StatusNew
	}
	if booking.DurationMinutes <= 0 {
		booking.DurationMinutes = models.DefaultDurationMinutes
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if booking.TableID != nil {
			if err := s.checkTableFree(tx, booking); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return storageErr("insert booking", err)
		}
		return runHooks(tx, booking, hooks)
	})
	if err == nil ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrTableNotFound) {
		return err
	}
	return asStorage("create booking", err)
}

func (s *BookingStore) checkTableFree(tx *gorm.DB, booking *models.Booking) error {
	var table models.Table
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, *booking.TableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTableNotFound
	}
	if err != nil {
		return storageErr("lock table", err)
	}
	if !table.Active {
		return fmt.Errorf("%w: table %d is inactive", ErrConflict, table.ID)
	}
	if booking.PartySize > table.Seats {
		return ErrCapacityExceeded
	}

	existing, err := s.activeOnTable(tx, table.ID, booking.Date)
	if err != nil {
		return err
	}
	slot := booking.Slot()
	for _, other := range existing {
		if other.Slot().Overlaps(slot) {
			return fmt.Errorf("%w: booking #%d", ErrConflict, other.ID)
		}
	}
	return nil
}

// SetStatus moves a booking to status. A transition the lifecycle does
// not allow leaves the row untouched and reports changed=false. Hooks
// only run when the status actually changed.
func (s *BookingStore) SetStatus(ctx context.Context, id uint, status models.BookingStatus, hooks ...TxHook) (*models.Booking, bool, error) {
	if !status.Valid() {
		return nil, false, invalid("status", "invalid_status")
	}

	var booking models.Booking
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Table").First(&booking, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storageErr("load booking", err)
		}
		if !booking.Status.CanTransitionTo(status) {
			return nil
		}
		if err := tx.Model(&booking).Update("status", string(status)).Error; err != nil {
			return storageErr("update booking status", err)
		}
		booking.Status = status
		changed = true
		return runHooks(tx, &booking, hooks)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if err != nil {
		return nil, false, asStorage("set booking status", err)
	}
	return &booking, changed, nil
}

// Delete removes the booking row and reports whether it existed.
func (s *BookingStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.DB.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return false, storageErr("delete booking", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *BookingStore) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Table").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get booking", err)
	}
	return &booking, nil
}

// MaxPage bounds page numbers so page*pageSize cannot overflow.
const MaxPage = 1_000_000

// List returns one page of bookings, most recent slot first. Page k
// starts at offset k*pageSize.
func (s *BookingStore) List(ctx context.Context, page, pageSize int, filter StatusFilter) ([]models.Booking, error) {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPolicy().PageSize
	}

	q := s.DB.WithContext(ctx).Preload("Table")
	if status, ok := filter.status(); ok {
		q = q.Where("status = ?", string(status))
	}

	var bookings []models.Booking
	err := q.Order("booking_date DESC").
		Order("booking_time DESC").
		Order("id DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&bookings).Error
	if err != nil {
		return nil, storageErr("list bookings", err)
	}
	return bookings, nil
}

func (s *BookingStore) activeOn(tx *gorm.DB, date models.Date) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.Where("booking_date = ? AND status IN ? AND table_id IS NOT NULL", date, models.ActiveStatuses()).
		Find(&bookings).Error
	if err != nil {
		return nil, storageErr("list active bookings", err)
	}
	return bookings, nil
}

func (s *BookingStore) activeOnTable(tx *gorm.DB, tableID uint, date models.Date) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.Where("table_id = ? AND booking_date = ? AND status IN ?", tableID, date, models.ActiveStatuses()).
		Find(&bookings).Error
	if err != nil {
		return nil, storageErr("list table bookings", err)
	}
	return bookings, nil
}

func runHooks(tx *gorm.DB, booking *models.Booking, hooks []TxHook) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(tx, booking); err != nil {
			return err
		}
	}
	return nil
}
