package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &RefreshToken{}, &Task{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return db
}

func TestTask_RejectsInvalidStatus(t *testing.T) {
	db := newTestDB(t)

	task := &Task{OwnerID: 1, Title: "bad status", Status: "paused"}
	err := db.Create(task).Error
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTask_RejectsInvalidPriority(t *testing.T) {
	db := newTestDB(t)

	task := &Task{OwnerID: 1, Title: "bad priority", Priority: "urgent"}
	err := db.Create(task).Error
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTask_AcceptsAllEnumValues(t *testing.T) {
	db := newTestDB(t)

	for _, status := range []TaskStatus{TaskStatusPending, TaskStatusOngoing, TaskStatusCompleted, TaskStatusArchived} {
		for _, priority := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh} {
			task := &Task{OwnerID: 1, Title: "ok", Status: status, Priority: priority}
			require.NoError(t, db.Create(task).Error)
		}
	}
}
