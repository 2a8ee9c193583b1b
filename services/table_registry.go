package services

import (
	"context"
	"errors"
	"strings"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"gorm.io/gorm"
)

// TableRegistry owns the physical tables guests can be seated at.
type TableRegistry struct {
	DB *gorm.DB
}

func NewTableRegistry(db *gorm.DB) *TableRegistry {
	return &TableRegistry{DB: db}
}

// ListActiveWithMinSeats returns active tables seating at least n guests,
// smallest first, then by title.
func (r *TableRegistry) ListActiveWithMinSeats(ctx context.Context, n int) ([]models.Table, error) {
	return r.activeWithMinSeats(r.DB.WithContext(ctx), n)
}

func (r *TableRegistry) activeWithMinSeats(tx *gorm.DB, n int) ([]models.Table, error) {
	var tables []models.Table
	err := tx.Where("is_active = ? AND seats >= ?", true, n).
		Order("seats ASC").
		Order("title ASC").
		Find(&tables).Error
	if err != nil {
		return nil, storageErr("list tables", err)
	}
	return tables, nil
}

func (r *TableRegistry) Get(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	err := r.DB.WithContext(ctx).First(&table, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, storageErr("get table", err)
	}
	return &table, nil
}

func (r *TableRegistry) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, storageErr("list tables", err)
	}
	return tables, nil
}

func (r *TableRegistry) Add(ctx context.Context, title string, seats int) (*models.Table, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "title_required")
	}
	if seats <= 0 {
		return nil, invalid("seats", "seats_positive")
	}
	table := models.Table{Title: title, Seats: seats, Active: true}
	if err := r.DB.WithContext(ctx).Create(&table).Error; err != nil {
		return nil, storageErr("add table", err)
	}
	return &table, nil
}

// SetActive toggles whether a table is offered. Tables are never deleted
// because past bookings reference them.
func (r *TableRegistry) SetActive(ctx context.Context, id uint, active bool) (*models.Table, error) {
	table, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(table).Update("is_active", active).Error; err != nil {
		return nil, storageErr("update table", err)
	}
	table.Active = active
	return table, nil
}

// Seed inserts tables only when the registry is empty and reports how
// many rows it added.
func (r *TableRegistry) Seed(ctx context.Context, tables []models.Table) (int, error) {
	var count int64
	db := r.DB.WithContext(ctx)
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return 0, storageErr("count tables", err)
	}
	if count > 0 || len(tables) == 0 {
		return 0, nil
	}
	if err := db.Create(&tables).Error; err != nil {
		return 0, storageErr("seed tables", err)
	}
	return len(tables), nil
}
