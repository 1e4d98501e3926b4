package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"taskpilot/backend/internal/cache"
	"taskpilot/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	taskCacheTTL     = 30 * time.Minute
	taskListCacheTTL = 10 * time.Minute
)

// CachedTaskService decorates a TaskService with a Redis read cache. Cache
// failures fall through to the store and are never user visible. Keys are
// owner-scoped, matching the ownership filter of the underlying service.
type CachedTaskService struct {
	taskService TaskService
	cache       cache.Cache
}

func NewCachedTaskService(taskService TaskService, cacheInstance cache.Cache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(ownerID, id uuid.UUID) string {
	return fmt.Sprintf("task:%s:%s", ownerID.String(), id.String())
}

func taskListKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", ownerID.String())
}

func (s *CachedTaskService) cacheSet(key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(key, value, ttl); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}

func (s *CachedTaskService) cacheDelete(keys ...string) {
	if err := s.cache.Delete(keys...); err != nil {
		log.Printf("Failed to invalidate cache keys %v: %v", keys, err)
	}
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input TaskInput) (models.Task, error) {
	task, err := s.taskService.CreateTask(db, ownerID, input)
	if err != nil {
		return task, err
	}

	s.cacheSet(taskKey(ownerID, task.ID), task, taskCacheTTL)
	s.cacheDelete(taskListKey(ownerID))

	return task, nil
}

func (s *CachedTaskService) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	var cached []models.Task
	err := s.cache.Get(taskListKey(ownerID), &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Cache read failed for %s: %v", taskListKey(ownerID), err)
	}

	tasks, err := s.taskService.GetTasksByUser(db, ownerID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(taskListKey(ownerID), tasks, taskListCacheTTL)

	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (models.Task, error) {
	var cached models.Task
	err := s.cache.Get(taskKey(ownerID, id), &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Cache read failed for %s: %v", taskKey(ownerID, id), err)
	}

	task, err := s.taskService.GetTaskByID(db, ownerID, id)
	if err != nil {
		return task, err
	}

	s.cacheSet(taskKey(ownerID, id), task, taskCacheTTL)

	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input TaskUpdate) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, ownerID, id, input)
	if err != nil {
		return task, err
	}

	s.cacheSet(taskKey(ownerID, id), task, taskCacheTTL)
	s.cacheDelete(taskListKey(ownerID))

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, ownerID, id); err != nil {
		return err
	}

	s.cacheDelete(taskKey(ownerID, id), taskListKey(ownerID))

	return nil
}
