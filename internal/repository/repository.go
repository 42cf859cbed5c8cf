package repository

import (
	"time"

	"github.com/questlog/questlog-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; a duplicate email surfaces as ErrDuplicateEmail
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByRefreshToken finds the user owning the given refresh token value,
	// with the user's refresh tokens preloaded
	FindByRefreshToken(token string) (*models.User, error)

	// Save persists changes to an existing user
	Save(user *models.User) error

	// AddRefreshToken appends a refresh token record to a user
	AddRefreshToken(token *models.RefreshToken) error

	// RemoveRefreshToken removes a refresh token record by its value
	RemoveRefreshToken(userID uint64, token string) error
}

// TaskFilter holds filtering and sorting options for listing tasks
type TaskFilter struct {
	OwnerID  uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	DueFrom  *time.Time
	DueTo    *time.Time
	SortBy   string
	Order    string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// FindChildren finds the direct children of a task, scoped to an owner.
	// A nil parentID selects the owner's root tasks.
	FindChildren(ownerID uint64, parentID *uint64) ([]models.Task, error)

	// List retrieves tasks matching the filter, sorted
	List(filter TaskFilter) ([]models.Task, error)

	// Save persists changes to an existing task
	Save(task *models.Task) error

	// Delete removes a task by ID
	Delete(id uint64) error
}
