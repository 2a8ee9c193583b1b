package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	Seats     int       `gorm:"not null;check:chk_tables_seats,seats > 0" json:"seats"`
	Active    bool      `gorm:"column:is_active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// DefaultTables is the floor plan seeded into an empty registry.
func DefaultTables() []Table {
	return []Table{
		{Title: "Зал №1", Seats: 4, Active: true},
		{Title: "Терраса", Seats: 2, Active: true},
		{Title: "VIP", Seats: 6, Active: true},
	}
}
