package repository

import (
	"context"
	"errors"
	"fmt"

	"task_deadlines/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, user_id, description, done, created_at, updated_at`

// TaskRepository scopes every statement by owner: a task that belongs to
// someone else is indistinguishable from a missing one.
type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return r.one(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, description, done) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		t.UserID, t.Description, t.Done,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update changes the fields that are non-nil.
func (r *TaskRepository) Update(ctx context.Context, id, userID int64, description *string, done *bool) (*domain.Task, error) {
	return r.one(ctx,
		`UPDATE tasks
		 SET description = COALESCE($1, description),
		     done = COALESCE($2, done),
		     updated_at = now()
		 WHERE id = $3 AND user_id = $4
		 RETURNING `+taskColumns,
		description, done, id, userID,
	)
}

// Delete removes the task only. Deadlines live in another database and are
// not touched.
func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return r.one(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING `+taskColumns,
		id, userID,
	)
}

func (r *TaskRepository) one(ctx context.Context, sql string, args ...any) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
