package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"gorm.io/gorm"
)

// Notification is an outbox event decoded for delivery.
type Notification struct {
	ID              uint             `json:"id"`
	Kind            models.EventKind `json:"kind"`
	RecipientID     int64            `json:"recipient_id,omitempty"`
	RequesterHandle string           `json:"requester_handle,omitempty"`
	Booking         models.Booking   `json:"booking"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Sink delivers notifications somewhere: a chat, a socket, a topic.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// NamedSink is a Sink with a stable name. The dispatcher records delivery
// per sink name, so a retry only goes to the sinks that failed.
type NamedSink interface {
	Sink
	SinkName() string
}

// sinkName falls back to the sink's position for unnamed sinks.
func sinkName(i int, s Sink) string {
	if n, ok := s.(NamedSink); ok && n.SinkName() != "" {
		return n.SinkName()
	}
	return "sink" + strconv.Itoa(i)
}

type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type outboxPayload struct {
	Booking         models.Booking `json:"booking"`
	RequesterHandle string         `json:"requester_handle,omitempty"`
}

// StageEvent returns a hook that records kind for the booking inside the
// surrounding transaction. User-facing events go to the requester, the
// admin event has no fixed recipient.
func StageEvent(kind models.EventKind, requesterHandle string) TxHook {
	return func(tx *gorm.DB, booking *models.Booking) error {
		payload, err := json.Marshal(outboxPayload{Booking: *booking, RequesterHandle: requesterHandle})
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", kind, err)
		}
		event := models.OutboxEvent{
			Kind:      kind,
			BookingID: booking.ID,
			Payload:   string(payload),
		}
		if kind != models.EventAdminNewBooking {
			event.RecipientID = booking.RequesterID
		}
		if err := tx.Create(&event).Error; err != nil {
			return storageErr("stage "+string(kind), err)
		}
		return nil
	}
}

func decodeEvent(event models.OutboxEvent) (Notification, error) {
	var payload outboxPayload
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return Notification{}, fmt.Errorf("decode outbox event %d: %w", event.ID, err)
	}
	return Notification{
		ID:              event.ID,
		Kind:            event.Kind,
		RecipientID:     event.RecipientID,
		RequesterHandle: payload.RequesterHandle,
		Booking:         payload.Booking,
		CreatedAt:       event.CreatedAt,
	}, nil
}
