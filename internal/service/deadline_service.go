package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/ownership"
	"task_deadlines/internal/repository"
)

// Authorizer confirms task ownership with the task service.
type Authorizer interface {
	Authorize(ctx context.Context, caller domain.Identity, bearerToken string, taskID int64) (ownership.Grant, error)
}

// DeadlineStore persists deadlines. Writes require a Grant.
type DeadlineStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.Deadline, error)
	GetByTask(ctx context.Context, taskID, userID int64) (*domain.Deadline, error)
	Create(ctx context.Context, g ownership.Grant, value string) (*domain.Deadline, error)
	Update(ctx context.Context, g ownership.Grant, value string) (*domain.Deadline, error)
	Delete(ctx context.Context, g ownership.Grant) (*domain.Deadline, error)
}

// Publisher delivers deadline events to the owner's live connections.
type Publisher interface {
	Publish(userID int64, ev domain.DeadlineEvent)
}

var errDeadlineNotFound = apperr.NotFound("Deadline not found")

// DeadlineService checks ownership with the task service before every
// write. Reads are scoped to the caller and are not re-validated.
type DeadlineService struct {
	auth      Authorizer
	deadlines DeadlineStore
	events    Publisher
	now       func() time.Time
}

// NewDeadlineService wires the service. events may be nil.
func NewDeadlineService(auth Authorizer, deadlines DeadlineStore, events Publisher) *DeadlineService {
	return &DeadlineService{
		auth:      auth,
		deadlines: deadlines,
		events:    events,
		now:       time.Now,
	}
}

func (s *DeadlineService) List(ctx context.Context, caller domain.Identity) ([]*domain.Deadline, error) {
	ds, err := s.deadlines.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ds, nil
}

func (s *DeadlineService) Get(ctx context.Context, caller domain.Identity, taskID int64) (*domain.Deadline, error) {
	d, err := s.deadlines.GetByTask(ctx, taskID, caller.UserID)
	return d, deadlineErr(err)
}

// Create attaches a deadline to a task the caller owns.
func (s *DeadlineService) Create(ctx context.Context, caller domain.Identity, token string, taskID int64, value string) (*domain.Deadline, error) {
	value = strings.TrimSpace(value)
	if taskID <= 0 || value == "" {
		return nil, apperr.Validation("taskId and deadline are required")
	}

	g, err := s.auth.Authorize(ctx, caller, token, taskID)
	if err != nil {
		return nil, err
	}

	d, err := s.deadlines.Create(ctx, g, value)
	if err != nil {
		if errors.Is(err, repository.ErrDeadlineExists) {
			return nil, apperr.Validation("deadline already exists for task")
		}
		return nil, apperr.Internal(err)
	}
	s.publish(ctx, domain.DeadlineCreated, d)
	return d, nil
}

// Update replaces the deadline value. Writing the same value twice yields the
// same stored state.
func (s *DeadlineService) Update(ctx context.Context, caller domain.Identity, token string, taskID int64, value string) (*domain.Deadline, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperr.Validation("deadline is required")
	}
	if taskID <= 0 {
		return nil, apperr.Validation("invalid task id")
	}

	g, err := s.auth.Authorize(ctx, caller, token, taskID)
	if err != nil {
		return nil, err
	}

	d, err := s.deadlines.Update(ctx, g, value)
	if err != nil {
		return nil, deadlineErr(err)
	}
	s.publish(ctx, domain.DeadlineUpdated, d)
	return d, nil
}

func (s *DeadlineService) Delete(ctx context.Context, caller domain.Identity, token string, taskID int64) (*domain.Deadline, error) {
	if taskID <= 0 {
		return nil, apperr.Validation("invalid task id")
	}

	g, err := s.auth.Authorize(ctx, caller, token, taskID)
	if err != nil {
		return nil, err
	}

	d, err := s.deadlines.Delete(ctx, g)
	if err != nil {
		return nil, deadlineErr(err)
	}
	s.publish(ctx, domain.DeadlineDeleted, d)
	return d, nil
}

func (s *DeadlineService) publish(ctx context.Context, typ domain.DeadlineEventType, d *domain.Deadline) {
	logger.WithContext(ctx).Info("deadline written", "event", typ, "task_id", d.TaskID, "user_id", d.UserID)
	if s.events == nil {
		return
	}
	s.events.Publish(d.UserID, domain.DeadlineEvent{Type: typ, Deadline: *d, At: s.now()})
}

func deadlineErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errDeadlineNotFound
	default:
		return apperr.Internal(err)
	}
}
