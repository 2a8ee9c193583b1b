package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotOverlaps(t *testing.T) {
	day := Date{Year: 2026, Month: 10, Day: 20}
	base := NewSlot(day, NewClockTime(18, 0), 120)

	tests := []struct {
		name  string
		other Slot
		want  bool
	}{
		{"same start", NewSlot(day, NewClockTime(18, 0), 120), true},
		{"starts inside", NewSlot(day, NewClockTime(19, 59), 120), true},
		{"ends inside", NewSlot(day, NewClockTime(16, 1), 120), true},
		{"contains", NewSlot(day, NewClockTime(17, 0), 240), true},
		{"touches end", NewSlot(day, NewClockTime(20, 0), 120), false},
		{"touches start", NewSlot(day, NewClockTime(16, 0), 120), false},
		{"other day", NewSlot(Date{Year: 2026, Month: 10, Day: 21}, NewClockTime(18, 0), 120), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestSlotAcrossMidnight(t *testing.T) {
	late := NewSlot(Date{Year: 2026, Month: 10, Day: 20}, NewClockTime(23, 0), 120)
	early := NewSlot(Date{Year: 2026, Month: 10, Day: 21}, NewClockTime(0, 30), 60)
	assert.True(t, late.Overlaps(early))
	assert.Equal(t, "25:00", late.End().String())
}

func TestBookingDefaults(t *testing.T) {
	b := Booking{Date: Date{Year: 2026, Month: 10, Day: 20}, StartTime: NewClockTime(12, 0)}
	assert.Equal(t, NewClockTime(14, 0), b.Slot().End())
	assert.Equal(t, "—", b.TableTitle())

	b.Table = &Table{Title: "VIP"}
	assert.Equal(t, "VIP", b.TableTitle())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusNew.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusNew.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusNew.CanTransitionTo(StatusNew))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusNew))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))

	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, BookingStatus("pending").Valid())
}
