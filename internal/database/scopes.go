package database

import (
	"time"

	"gorm.io/gorm"
)

// OwnedBy scopes a query to a single owner's records.
func OwnedBy(ownerID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// DueWindow scopes a query to tasks whose due date falls in [start, end).
func DueWindow(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("due_date >= ? AND due_date < ?", start, end)
	}
}
