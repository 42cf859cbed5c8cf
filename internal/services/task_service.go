package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/questlog/questlog-api/internal/models"
	"github.com/questlog/questlog-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("user does not have permission to delete this task")
	ErrTitleEmpty   = errors.New("title is required")
	ErrSelfParent   = errors.New("task cannot be its own parent")
	ErrCyclicParent = errors.New("task cannot be parented to its own descendant")
	ErrNoTasksFound = errors.New("no tasks found")
)

// TaskService owns the task hierarchy: descendant discovery, cascade
// deletion, reparent validation and owner-scoped retrieval.
type TaskService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID  uint64
	Title    string
	ParentID *uint64
	Priority models.TaskPriority
	DueDate  *time.Time
}

// PatchTaskInput represents a partial update. Nil pointers leave the field
// untouched; the Set flags record that the field key was present so that
// explicit nulls can clear due date or detach the parent.
type PatchTaskInput struct {
	Title        *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	Parent       *uint64
	ParentSet    bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID  uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Today    bool
	Tomorrow bool
	Week     bool
	SortBy   string
	Order    string
}

// DeleteResult reports the deleted root task and how many descendants were
// removed with it.
type DeleteResult struct {
	Task     *models.Task
	Cascaded int
}

// Descendants collects every task below taskID in the owner's forest, to any
// depth. Traversal is an explicit worklist over one-level child queries so
// deep trees cannot exhaust the stack. Order across levels is unspecified.
func (s *TaskService) Descendants(ownerID, taskID uint64) ([]models.Task, error) {
	var descendants []models.Task

	queue := []uint64{taskID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		children, err := s.taskRepo.FindChildren(ownerID, &parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch children of task %d: %w", parentID, err)
		}
		for _, child := range children {
			descendants = append(descendants, child)
			queue = append(queue, child.ID)
		}
	}

	return descendants, nil
}

// CreateTask creates a new task owned by the caller
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleEmpty
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityLow
	}

	task := &models.Task{
		OwnerID:  input.OwnerID,
		ParentID: input.ParentID,
		Title:    input.Title,
		Status:   models.TaskStatusPending,
		Priority: input.Priority,
		DueDate:  input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created", "owner_id", task.OwnerID, "task_id", task.ID, "title", task.Title)
	return task, nil
}

// DeleteTask deletes a task and its entire descendant subtree. Ownership is
// checked before any mutation; descendant deletes are best effort and are
// not rolled back if one fails mid-cascade.
func (s *TaskService) DeleteTask(ownerID, taskID uint64) (*DeleteResult, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != ownerID {
		s.logger.Warn("delete forbidden", "owner_id", ownerID, "task_id", taskID)
		return nil, ErrNotTaskOwner
	}

	descendants, err := s.Descendants(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	cascaded := 0
	for _, descendant := range descendants {
		if err := s.taskRepo.Delete(descendant.ID); err != nil {
			// Already-deleted nodes stay deleted. Surface the failure after
			// logging how far the cascade got.
			s.logger.Error("cascade delete failed", "owner_id", ownerID,
				"task_id", descendant.ID, "deleted_so_far", cascaded, "error", err)
			return nil, fmt.Errorf("failed to delete subtask %d: %w", descendant.ID, err)
		}
		cascaded++
		s.logger.Info("subtask deleted", "owner_id", ownerID, "task_id", descendant.ID, "title", descendant.Title)
	}

	s.logger.Info("task deleted", "owner_id", ownerID, "task_id", taskID, "cascaded", cascaded)
	return &DeleteResult{Task: task, Cascaded: cascaded}, nil
}

// PatchTask applies a partial update to a task. Reparenting is validated
// against self-loops and cycles through the descendant set.
func (s *TaskService) PatchTask(ownerID, taskID uint64, input PatchTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		s.logger.Info("task title updated", "task_id", task.ID, "from", task.Title, "to", *input.Title)
		task.Title = *input.Title
	}
	if input.Status != nil && *input.Status != "" {
		s.logger.Info("task status updated", "task_id", task.ID, "from", task.Status, "to", *input.Status)
		task.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != "" {
		s.logger.Info("task priority updated", "task_id", task.ID, "from", task.Priority, "to", *input.Priority)
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.ParentSet {
		if err := s.applyReparent(task, input.Parent); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// applyReparent moves a task in the forest. A nil target detaches the task
// to a root. The target is not checked for existence; a dangling reference
// is accepted.
func (s *TaskService) applyReparent(task *models.Task, parent *uint64) error {
	if parent == nil {
		s.logger.Info("task detached to root", "task_id", task.ID)
		task.ParentID = nil
		return nil
	}

	if *parent == task.ID {
		return ErrSelfParent
	}

	descendants, err := s.Descendants(task.OwnerID, task.ID)
	if err != nil {
		return err
	}
	for _, descendant := range descendants {
		if descendant.ID == *parent {
			return ErrCyclicParent
		}
	}

	s.logger.Info("task reparented", "task_id", task.ID, "parent_id", *parent)
	task.ParentID = parent
	return nil
}

// ListTasks returns the caller's tasks matching the filters, sorted. An
// empty result is the distinguished no-tasks-found outcome.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		OwnerID:  input.OwnerID,
		Status:   input.Status,
		Priority: input.Priority,
		SortBy:   input.SortBy,
		Order:    input.Order,
	}

	// Date windows override each other in fixed order; the last one applied
	// wins when combined.
	if input.Today {
		start := startOfDay(time.Now())
		end := start.AddDate(0, 0, 1)
		filter.DueFrom, filter.DueTo = &start, &end
	}
	if input.Tomorrow {
		start := startOfDay(time.Now()).AddDate(0, 0, 1)
		end := start.AddDate(0, 0, 1)
		filter.DueFrom, filter.DueTo = &start, &end
	}
	if input.Week {
		start := startOfDay(time.Now())
		end := start.AddDate(0, 0, 8)
		filter.DueFrom, filter.DueTo = &start, &end
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasksFound
	}
	return tasks, nil
}

// Children returns every descendant under the given parent for the caller.
func (s *TaskService) Children(ownerID, parentID uint64) ([]models.Task, error) {
	tasks, err := s.Descendants(ownerID, parentID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasksFound
	}
	return tasks, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
