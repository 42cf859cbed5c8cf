package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusOngoing   TaskStatus = "ongoing"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var (
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

type Task struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	OwnerID   uint64       `gorm:"index;not null" json:"owner_id"`
	ParentID  *uint64      `gorm:"index" json:"parent_id"`
	Title     string       `gorm:"not null" json:"title"`
	Status    TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority  TaskPriority `gorm:"type:varchar(20);not null;default:'low'" json:"priority"`
	DueDate   *time.Time   `gorm:"index" json:"due_date"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`

	// Relations
	Owner  User  `gorm:"foreignKey:OwnerID" json:"-"`
	Parent *Task `gorm:"foreignKey:ParentID" json:"-"`
}

// BeforeSave rejects enum values outside the allowed sets at the storage
// boundary. Empty values are filled by the column defaults on insert.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	switch t.Status {
	case "", TaskStatusPending, TaskStatusOngoing, TaskStatusCompleted, TaskStatusArchived:
	default:
		return ErrInvalidStatus
	}
	switch t.Priority {
	case "", TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
	default:
		return ErrInvalidPriority
	}
	return nil
}
