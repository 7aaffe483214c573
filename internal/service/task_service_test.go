package service

import (
	"context"
	"testing"

	"task_deadlines/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_OwnerScoping(t *testing.T) {
	svc := NewTaskService(newTaskStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, userA.UserID, task.UserID)

	_, err = svc.Get(ctx, userB, task.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Task not found", apperr.Message(err))

	_, err = svc.Delete(ctx, userB, task.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := svc.List(ctx, userB)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	svc := NewTaskService(newTaskStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, userA, "buy milk")
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, userA, task.ID, nil, &done)
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "buy milk", updated.Description)

	empty := " "
	_, err = svc.Update(ctx, userA, task.ID, &empty, nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTaskService_CreateRequiresDescription(t *testing.T) {
	svc := NewTaskService(newTaskStore())

	_, err := svc.Create(context.Background(), userA, "")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Missing description", apperr.Message(err))
}
