package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/questlog/questlog-api/internal/errors"
	"github.com/questlog/questlog-api/internal/middleware"
	"github.com/questlog/questlog-api/internal/models"
	"github.com/questlog/questlog-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title    string     `json:"title"`
		ParentID *uint64    `json:"parent_id"`
		Priority string     `json:"priority"`
		DueDate  *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		OwnerID:  userID,
		Title:    req.Title,
		ParentID: req.ParentID,
		Priority: models.TaskPriority(req.Priority),
		DueDate:  req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "task created successfully",
		"data":    task,
	})
}

// ListTasks returns the caller's tasks with optional filters and sorting
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		OwnerID:  userID,
		Today:    c.Query("today") == "true",
		Tomorrow: c.Query("tomorrow") == "true",
		Week:     c.Query("week") == "true",
		SortBy:   normalizeSortField(c.DefaultQuery("sortBy", "created_at")),
		Order:    c.Query("order"),
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks fetched successfully",
		"tasks":   tasks,
	})
}

// GetChildren returns every descendant under a parent task
func (h *TaskHandler) GetChildren(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	parentID, err := strconv.ParseUint(c.Param("parent_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "a valid parent id is required to get subtasks")
		return
	}

	tasks, err := h.taskService.Children(userID, parentID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks fetched successfully",
		"tasks":   tasks,
	})
}

// PatchTask applies a partial update to a task
func (h *TaskHandler) PatchTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Task ID is required to edit tasks")
		return
	}

	type PatchTaskRequest struct {
		Title    *string    `json:"title"`
		Status   *string    `json:"status"`
		Priority *string    `json:"priority"`
		DueDate  *time.Time `json:"due_date"`
		ParentID *uint64    `json:"parent_id"`
	}

	var req PatchTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Explicit nulls clear due date and detach parent, so key presence has
	// to be distinguished from a null value.
	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	_, dueDateSet := raw["due_date"]
	_, parentSet := raw["parent_id"]

	input := services.PatchTaskInput{
		Title:        req.Title,
		DueDate:      req.DueDate,
		ClearDueDate: dueDateSet && req.DueDate == nil,
		ParentSet:    parentSet,
		Parent:       req.ParentID,
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		input.Status = &s
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	// Task ids start at 1, so a zero parent is treated like an explicit null.
	if input.Parent != nil && *input.Parent == 0 {
		input.Parent = nil
	}

	task, err := h.taskService.PatchTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Task updated successfully",
		"updatedTask": task,
	})
}

// DeleteTask deletes a task together with its descendant subtree
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "an id is required to delete a task")
		return
	}

	result, err := h.taskService.DeleteTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "task deleted successfully",
		"deleted":        result.Task,
		"cascaded_count": result.Cascaded,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeMissingField, "the task is empty")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, "You do not have permission to delete this task")
	case errors.Is(err, services.ErrSelfParent):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeSelfParent, "You can't parent this task to itself")
	case errors.Is(err, services.ErrCyclicParent):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeCyclicParent, "You can't parent this task to its child")
	case errors.Is(err, services.ErrNoTasksFound):
		apierrors.NotFound(c, "No tasks found")
	default:
		apierrors.InternalError(c, "")
	}
}

func normalizeSortField(field string) string {
	switch field {
	case "createdAt", "dateCreated":
		return "created_at"
	case "dueDate":
		return "due_date"
	default:
		return field
	}
}
