// Package ownership re-derives write authority for deadlines from the task
// service, which is the only system of record for task ownership.
//
// Authorize is the single way to obtain a Grant, and every deadline write in
// the repository layer takes a Grant. A denied or failed check produces no
// Grant, so no write can be issued without a successful check.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/taskclient"
)

// Grant proves that the task service confirmed, at CheckedAt, that the
// identity owns the task. Its fields are unexported; only Authorize
// produces a usable one.
type Grant struct {
	identity  domain.Identity
	taskID    int64
	checkedAt time.Time
}

func (g Grant) Identity() domain.Identity { return g.identity }
func (g Grant) TaskID() int64             { return g.taskID }
func (g Grant) CheckedAt() time.Time      { return g.checkedAt }

// Valid is false for the zero Grant.
func (g Grant) Valid() bool {
	return g.taskID > 0 && g.identity.UserID > 0
}

// Reason is why a check was denied. It is logged and counted, never returned
// to the client.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonInvalidTask       Reason = "invalid_task"
	ReasonTaskNotFound      Reason = "task_not_found"
	ReasonUnauthorized      Reason = "unauthorized"
	ReasonWrongOwner        Reason = "wrong_owner"
	ReasonTimeout           Reason = "timeout"
	ReasonUnreachable       Reason = "unreachable"
	ReasonUpstreamError     Reason = "upstream_error"
)

// Denial is the denied outcome. It matches apperr.ErrOwnershipDenied, so
// every reason looks the same to the caller.
type Denial struct {
	Reason Reason
	TaskID int64
	Err    error
}

func (d *Denial) Error() string {
	if d.Err != nil {
		return fmt.Sprintf("ownership denied for task %d (%s): %v", d.TaskID, d.Reason, d.Err)
	}
	return fmt.Sprintf("ownership denied for task %d (%s)", d.TaskID, d.Reason)
}

func (d *Denial) Unwrap() []error {
	if d.Err != nil {
		return []error{apperr.ErrOwnershipDenied, d.Err}
	}
	return []error{apperr.ErrOwnershipDenied}
}

// TaskLookup reads a single task with the caller's credential.
type TaskLookup interface {
	GetTask(ctx context.Context, token string, id int64) (*domain.Task, error)
}

type Validator struct {
	tasks   TaskLookup
	timeout time.Duration
	now     func() time.Time
}

// NewValidator bounds every lookup by timeout; expiry is a denial.
func NewValidator(tasks TaskLookup, timeout time.Duration) *Validator {
	return &Validator{
		tasks:   tasks,
		timeout: timeout,
		now:     time.Now,
	}
}

// Authorize asks the task service whether caller currently owns taskID,
// forwarding bearerToken unchanged. It fails closed: anything short of a
// successful lookup with an exactly matching owner is a *Denial.
func (v *Validator) Authorize(ctx context.Context, caller domain.Identity, bearerToken string, taskID int64) (Grant, error) {
	start := v.now()

	if bearerToken == "" || caller.UserID <= 0 {
		return Grant{}, v.deny(ctx, start, &Denial{Reason: ReasonMissingCredential, TaskID: taskID})
	}
	if taskID <= 0 {
		return Grant{}, v.deny(ctx, start, &Denial{Reason: ReasonInvalidTask, TaskID: taskID})
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	task, err := v.tasks.GetTask(lookupCtx, bearerToken, taskID)
	if err != nil {
		return Grant{}, v.deny(ctx, start, &Denial{Reason: classify(lookupCtx, err), TaskID: taskID, Err: err})
	}
	if task == nil || task.ID != taskID {
		return Grant{}, v.deny(ctx, start, &Denial{
			Reason: ReasonUpstreamError,
			TaskID: taskID,
			Err:    errors.New("task service returned a different task"),
		})
	}
	if task.UserID != caller.UserID {
		return Grant{}, v.deny(ctx, start, &Denial{Reason: ReasonWrongOwner, TaskID: taskID})
	}

	checks.WithLabelValues("allowed", "").Inc()
	checkDuration.WithLabelValues("allowed").Observe(v.now().Sub(start).Seconds())

	return Grant{identity: caller, taskID: taskID, checkedAt: v.now()}, nil
}

func (v *Validator) deny(ctx context.Context, start time.Time, d *Denial) error {
	checks.WithLabelValues("denied", string(d.Reason)).Inc()
	checkDuration.WithLabelValues("denied").Observe(v.now().Sub(start).Seconds())

	log := logger.WithContext(ctx).With("task_id", d.TaskID, "reason", d.Reason)
	switch d.Reason {
	case ReasonTimeout, ReasonUnreachable, ReasonUpstreamError:
		log.Error("ownership check failed closed", "error", d.Err)
	default:
		log.Info("ownership denied")
	}
	return d
}

func classify(ctx context.Context, err error) Reason {
	switch {
	case errors.Is(err, taskclient.ErrNotFound):
		return ReasonTaskNotFound
	case errors.Is(err, taskclient.ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonUnreachable
	}
	return ReasonUpstreamError
}
