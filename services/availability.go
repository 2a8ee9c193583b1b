package services

import (
	"context"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"gorm.io/gorm"
)

// AvailabilityEngine answers which tables are free for a slot.
type AvailabilityEngine struct {
	DB       *gorm.DB
	Tables   *TableRegistry
	Bookings *BookingStore
}

func NewAvailabilityEngine(db *gorm.DB, tables *TableRegistry, bookings *BookingStore) *AvailabilityEngine {
	return &AvailabilityEngine{DB: db, Tables: tables, Bookings: bookings}
}

// FindFreeTables returns the active tables with enough seats and no
// overlapping new or confirmed booking, smallest first. Both reads run
// in one transaction. An empty result is a normal outcome.
func (e *AvailabilityEngine) FindFreeTables(ctx context.Context, slot models.Slot, partySize int) ([]models.Table, error) {
	var free []models.Table
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates, err := e.Tables.activeWithMinSeats(tx, partySize)
		if err != nil || len(candidates) == 0 {
			return err
		}
		busy, err := e.Bookings.activeOn(tx, slot.Date)
		if err != nil {
			return err
		}
		free = excludeBusy(candidates, busy, slot)
		return nil
	})
	if err != nil {
		return nil, asStorage("find free tables", err)
	}
	return free, nil
}

func excludeBusy(candidates []models.Table, busy []models.Booking, slot models.Slot) []models.Table {
	taken := make(map[uint]bool)
	for _, b := range busy {
		if b.TableID != nil && b.Slot().Overlaps(slot) {
			taken[*b.TableID] = true
		}
	}
	free := make([]models.Table, 0, len(candidates))
	for _, t := range candidates {
		if !taken[t.ID] {
			free = append(free, t)
		}
	}
	return free
}
