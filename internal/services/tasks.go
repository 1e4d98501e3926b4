package services

import (
	"errors"
	"fmt"
	"time"

	"taskpilot/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a nonexistent task and a task owned by
	// someone else; callers cannot tell the two apart.
	ErrTaskNotFound = errors.New("task not found")
	ErrValidation   = errors.New("validation failed")
)

type TaskInput struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

// TaskUpdate carries only the fields the caller supplied. Owner and creation
// time are not updatable regardless of the request payload.
type TaskUpdate struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, input TaskInput) (models.Task, error)
	GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input TaskUpdate) (models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, input TaskInput) (models.Task, error) {
	if input.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Description == "" {
		return models.Task{}, fmt.Errorf("%w: description is required", ErrValidation)
	}

	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if !input.Status.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	taskID, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, err
	}

	now := time.Now()
	task := models.Task{
		ID:          taskID,
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := db.Where("user_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadOwned is the single load-and-authorize path shared by get, update and
// delete.
func (s *TaskServiceImpl) loadOwned(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error) {
	return s.loadOwned(db, ownerID, id)
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input TaskUpdate) (models.Task, error) {
	task, err := s.loadOwned(db, ownerID, id)
	if err != nil {
		return models.Task{}, err
	}

	updates := map[string]interface{}{}

	if input.Title != nil {
		if *input.Title == "" {
			return models.Task{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			return models.Task{}, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		updates["description"] = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.Task{}, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
		}
		updates["status"] = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return models.Task{}, fmt.Errorf("%w: invalid priority %q", ErrValidation, *input.Priority)
		}
		updates["priority"] = *input.Priority
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	updates["updated_at"] = time.Now()

	if err := db.Model(&task).Updates(updates).Error; err != nil {
		return models.Task{}, err
	}

	return s.loadOwned(db, ownerID, id)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
