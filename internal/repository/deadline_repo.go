package repository

import (
	"context"
	"errors"
	"fmt"

	"task_deadlines/internal/domain"
	"task_deadlines/internal/ownership"

	"github.com/jackc/pgx/v5"
)

const deadlineColumns = `id, task_id, deadline, user_id, created_at, updated_at`

var errNoGrant = errors.New("deadline write without ownership grant")

// DeadlineRepository reads are scoped by user id. Writes take an
// ownership.Grant and are scoped by the grant's task and identity.
type DeadlineRepository struct {
	db DBTX
}

func NewDeadlineRepository(db DBTX) *DeadlineRepository {
	return &DeadlineRepository{db: db}
}

func (r *DeadlineRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Deadline, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+deadlineColumns+` FROM deadlines WHERE user_id = $1 ORDER BY task_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select deadlines: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Deadline, 0)
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *DeadlineRepository) GetByTask(ctx context.Context, taskID, userID int64) (*domain.Deadline, error) {
	return r.one(ctx,
		`SELECT `+deadlineColumns+` FROM deadlines WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	)
}

// Create inserts the deadline for the granted task. A second deadline for
// the same task is ErrDeadlineExists.
func (r *DeadlineRepository) Create(ctx context.Context, g ownership.Grant, value string) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errNoGrant
	}
	d, err := r.one(ctx,
		`INSERT INTO deadlines (task_id, deadline, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+deadlineColumns,
		g.TaskID(), value, g.Identity().UserID,
	)
	if err != nil && isUniqueViolation(err) {
		return nil, ErrDeadlineExists
	}
	return d, err
}

func (r *DeadlineRepository) Update(ctx context.Context, g ownership.Grant, value string) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errNoGrant
	}
	return r.one(ctx,
		`UPDATE deadlines
		 SET deadline = $1, updated_at = now()
		 WHERE task_id = $2 AND user_id = $3
		 RETURNING `+deadlineColumns,
		value, g.TaskID(), g.Identity().UserID,
	)
}

func (r *DeadlineRepository) Delete(ctx context.Context, g ownership.Grant) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errNoGrant
	}
	return r.one(ctx,
		`DELETE FROM deadlines WHERE task_id = $1 AND user_id = $2 RETURNING `+deadlineColumns,
		g.TaskID(), g.Identity().UserID,
	)
}

func (r *DeadlineRepository) one(ctx context.Context, sql string, args ...any) (*domain.Deadline, error) {
	d, err := scanDeadline(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func scanDeadline(row pgx.Row) (*domain.Deadline, error) {
	var d domain.Deadline
	if err := row.Scan(&d.ID, &d.TaskID, &d.Deadline, &d.UserID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
