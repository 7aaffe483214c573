package service

import (
	"context"
	"errors"
	"strings"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/repository"
)

// TaskStore is the owner-scoped task persistence used by TaskService.
type TaskStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, id, userID int64, description *string, done *bool) (*domain.Task, error)
	Delete(ctx context.Context, id, userID int64) (*domain.Task, error)
}

var errTaskNotFound = apperr.NotFound("Task not found")

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, caller domain.Identity) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

// Get returns the task only if caller owns it. A task owned by someone else
// is reported as not found.
func (s *TaskService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, errTaskNotFound
	}
	t, err := s.tasks.GetByID(ctx, id, caller.UserID)
	return t, taskErr(err)
}

func (s *TaskService) Create(ctx context.Context, caller domain.Identity, description string) (*domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("Missing description")
	}

	t := &domain.Task{UserID: caller.UserID, Description: description}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, caller domain.Identity, id int64, description *string, done *bool) (*domain.Task, error) {
	if id <= 0 {
		return nil, errTaskNotFound
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			return nil, apperr.Validation("Missing description")
		}
		description = &trimmed
	}
	t, err := s.tasks.Update(ctx, id, caller.UserID, description, done)
	return t, taskErr(err)
}

// Delete removes the task. Deadlines referencing it are left in place.
func (s *TaskService) Delete(ctx context.Context, caller domain.Identity, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, errTaskNotFound
	}
	t, err := s.tasks.Delete(ctx, id, caller.UserID)
	if err != nil {
		return nil, taskErr(err)
	}
	logger.WithContext(ctx).Info("task deleted, deadlines for it may be orphaned",
		"task_id", t.ID, "user_id", caller.UserID)
	return t, nil
}

func taskErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errTaskNotFound
	default:
		return apperr.Internal(err)
	}
}
