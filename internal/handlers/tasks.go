package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"taskpilot/backend/internal/middleware"
	"taskpilot/backend/internal/services"
	"taskpilot/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	reminders   *worker.JobQueue
}

// NewTaskHandler wires the task CRUD surface. reminders may be nil when no
// redis queue is configured; due-date reminders are then skipped.
func NewTaskHandler(db *gorm.DB, taskService services.TaskService, reminders *worker.JobQueue) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, reminders: reminders}
}

func authenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := userIDInterface.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	h.scheduleReminder(task.Title, task.UserID.String(), input.DueDate)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasksByUser(h.db, userID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTaskByID(h.db, userID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var input services.TaskUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.UpdateTask(h.db, userID, id, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	h.scheduleReminder(task.Title, task.UserID.String(), input.DueDate)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) scheduleReminder(title, ownerID string, dueDate *time.Time) {
	if h.reminders == nil || dueDate == nil {
		return
	}

	err := h.reminders.EnqueueAt(worker.ReminderQueue, worker.JobTypeTaskReminder, map[string]interface{}{
		"title":   title,
		"user_id": ownerID,
	}, *dueDate)
	if err != nil {
		log.Printf("Failed to schedule reminder for %q: %v", title, err)
	}
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		log.Printf("Task request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process task request"})
	}
}
