package models

import "time"

// Slot is the half-open interval [start, start+duration) a booking
// occupies on its date.
type Slot struct {
	Date     Date
	Start    ClockTime
	Duration time.Duration
}

func NewSlot(date Date, start ClockTime, minutes int) Slot {
	return Slot{Date: date, Start: start, Duration: time.Duration(minutes) * time.Minute}
}

func (s Slot) StartsAt() time.Time {
	return s.Date.In(time.UTC).Add(time.Duration(s.Start) * time.Minute)
}

func (s Slot) EndsAt() time.Time {
	return s.StartsAt().Add(s.Duration)
}

func (s Slot) End() ClockTime {
	return s.Start.Add(s.Duration)
}

// Overlaps reports whether both slots share any instant. A slot ending
// exactly when the other starts does not overlap it.
func (s Slot) Overlaps(other Slot) bool {
	return s.StartsAt().Before(other.EndsAt()) && other.StartsAt().Before(s.EndsAt())
}
