package models

import (
	"time"
)

type EventKind string

const (
	EventAdminNewBooking EventKind = "admin_new_booking"
	EventUserConfirmed   EventKind = "user_confirmed"
	EventUserCancelled   EventKind = "user_cancelled"
)

// OutboxEvent is a notification staged in the same transaction as the
// booking change it describes. Payload holds a JSON snapshot so the
// event can still be rendered after the booking row is deleted.
// DeliveredTo lists the sinks, comma separated, that already accepted it.
type OutboxEvent struct {
	ID          uint       `gorm:"primaryKey"`
	Kind        EventKind  `gorm:"type:varchar(32);not null"`
	BookingID   uint       `gorm:"not null;index"`
	RecipientID int64      `gorm:"not null;default:0"`
	Payload     string     `gorm:"type:text;not null"`
	Attempts    int        `gorm:"not null;default:0"`
	Processed   bool       `gorm:"not null;default:false;index:idx_outbox_processed"`
	LastError   string     `gorm:"type:text"`
	DeliveredTo string     `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_outbox_processed"`
	ProcessedAt *time.Time
}

func (OutboxEvent) TableName() string {
	return "notification_outbox"
}
