package models

import "time"

type BookingStatus string

const (
	StatusNew       BookingStatus = "new"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

const (
	DefaultDurationMinutes = 120
	MinPartySize           = 1
	MaxPartySize           = 30
)

// ActiveStatuses are the statuses that hold a table.
func ActiveStatuses() []string {
	return []string{string(StatusNew), string(StatusConfirmed)}
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsActive() bool {
	return s == StatusNew || s == StatusConfirmed
}

// CanTransitionTo allows new->confirmed, new->cancelled and
// confirmed->cancelled. Everything else, including a move to the
// current status, is rejected.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusNew:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	RequesterID     int64         `gorm:"column:user_id;not null;index" json:"requester_id"`
	Name            string        `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string        `gorm:"type:varchar(64);not null" json:"phone"`
	Date            Date          `gorm:"column:booking_date;type:date;not null;index:idx_bookings_table_date,priority:2" json:"date"`
	StartTime       ClockTime     `gorm:"column:booking_time;type:time;not null" json:"start_time"`
	DurationMinutes int           `gorm:"column:duration_min;not null;default:120" json:"duration_minutes"`
	PartySize       int           `gorm:"column:guests;not null;check:chk_bookings_guests,guests BETWEEN 1 AND 30" json:"party_size"`
	TableID         *uint         `gorm:"index:idx_bookings_table_date,priority:1" json:"table_id"`
	Table           *Table        `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Status          BookingStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
}

func (b Booking) Slot() Slot {
	minutes := b.DurationMinutes
	if minutes == 0 {
		minutes = DefaultDurationMinutes
	}
	return NewSlot(b.Date, b.StartTime, minutes)
}

// TableTitle is the assigned table's title, or "—" when none is known.
func (b Booking) TableTitle() string {
	if b.Table != nil && b.Table.Title != "" {
		return b.Table.Title
	}
	return "—"
}
