package repository

import (
	"github.com/questlog/questlog-api/internal/database"
	"github.com/questlog/questlog-api/internal/models"
	"gorm.io/gorm"
)

// Columns the caller may sort by. Anything else falls back to creation time.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"title":      "title",
	"priority":   "priority",
	"status":     "status",
}

// Priority and status sort by rank rather than lexicographically: high
// urgency first, workflow order for status. Unrecognized values rank last.
const (
	priorityRank = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"
	statusRank   = "CASE status WHEN 'pending' THEN 0 WHEN 'ongoing' THEN 1 WHEN 'completed' THEN 2 WHEN 'archived' THEN 3 ELSE 4 END"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindChildren finds the direct children of a task, scoped to an owner
func (r *GormTaskRepository) FindChildren(ownerID uint64, parentID *uint64) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.Scopes(database.OwnedBy(ownerID))
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// List retrieves tasks matching the filter, sorted
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.OwnedBy(filter.OwnerID))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.DueFrom != nil && filter.DueTo != nil {
		query = query.Scopes(database.DueWindow(*filter.DueFrom, *filter.DueTo))
	}

	query = query.Order(orderExpr(filter.SortBy, filter.Order))

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save persists changes to an existing task
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task by ID
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

func orderExpr(sortBy, order string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}

	switch column {
	case "priority":
		column = priorityRank
	case "status":
		column = statusRank
	}

	if order == "desc" {
		return column + " DESC"
	}
	return column + " ASC"
}
