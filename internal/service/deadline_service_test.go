package service

import (
	"context"
	"testing"
	"time"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/ownership"
	"task_deadlines/internal/taskclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userA = domain.Identity{UserID: 1, Username: "alice"}
	userB = domain.Identity{UserID: 2, Username: "bob"}
)

type deadlineFixture struct {
	lookup *taskLookup
	store  *deadlineStore
	events *recordingPublisher
	svc    *DeadlineService
}

func newDeadlineFixture() *deadlineFixture {
	f := &deadlineFixture{
		lookup: newTaskLookup(),
		store:  newDeadlineStore(),
		events: &recordingPublisher{},
	}
	f.lookup.owners["token-a"] = userA.UserID
	f.lookup.owners["token-b"] = userB.UserID
	f.lookup.tasks[7] = &domain.Task{ID: 7, UserID: userA.UserID, Description: "buy milk"}
	f.svc = NewDeadlineService(ownership.NewValidator(f.lookup, time.Second), f.store, f.events)
	return f
}

func TestDeadline_CreateThenRead(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, userA, "token-a", 7, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, userA.UserID, created.UserID)

	got, err := f.svc.Get(ctx, userA, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Deadline)
	assert.Equal(t, userA.UserID, got.UserID)

	require.Len(t, f.events.events[userA.UserID], 1)
	assert.Equal(t, domain.DeadlineCreated, f.events.events[userA.UserID][0].Type)
}

func TestDeadline_OtherUserDeniedAndValueUnchanged(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, userA, "token-a", 7, "2024-01-01")
	require.NoError(t, err)
	writes := f.store.writes

	_, err = f.svc.Update(ctx, userB, "token-b", 7, "2099-01-01")
	require.ErrorIs(t, err, apperr.ErrOwnershipDenied)
	_, err = f.svc.Delete(ctx, userB, "token-b", 7)
	require.ErrorIs(t, err, apperr.ErrOwnershipDenied)
	_, err = f.svc.Create(ctx, userB, "token-b", 7, "2099-01-01")
	require.ErrorIs(t, err, apperr.ErrOwnershipDenied)

	assert.Equal(t, writes, f.store.writes)
	assert.Empty(t, f.events.events[userB.UserID])

	got, err := f.svc.Get(ctx, userA, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Deadline)
}

func TestDeadline_ForeignAndMissingTaskLookTheSame(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, foreign := f.svc.Create(ctx, userB, "token-b", 7, "2099-01-01")
	_, missing := f.svc.Create(ctx, userB, "token-b", 999, "2099-01-01")

	require.Error(t, foreign)
	require.Error(t, missing)
	assert.Equal(t, apperr.KindOf(missing), apperr.KindOf(foreign))
	assert.Equal(t, apperr.Message(missing), apperr.Message(foreign))
}

func TestDeadline_TaskServiceFailureRejectsWrite(t *testing.T) {
	f := newDeadlineFixture()
	f.lookup.failure = &taskclient.StatusError{Code: 500, Body: `{"error":"internal error"}`}

	_, err := f.svc.Create(context.Background(), userA, "token-a", 7, "2024-01-01")

	require.ErrorIs(t, err, apperr.ErrOwnershipDenied)
	assert.Zero(t, f.store.writes)
	assert.Empty(t, f.store.byTask)
}

func TestDeadline_ValidationBeforeOwnershipCheck(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
		msg  string
	}{
		{"create without value", func() error {
			_, err := f.svc.Create(ctx, userA, "token-a", 7, "  ")
			return err
		}, "taskId and deadline are required"},
		{"create without task", func() error {
			_, err := f.svc.Create(ctx, userA, "token-a", 0, "2024-01-01")
			return err
		}, "taskId and deadline are required"},
		{"update without value", func() error {
			_, err := f.svc.Update(ctx, userA, "token-a", 7, "")
			return err
		}, "deadline is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tc.msg, apperr.Message(err))
		})
	}
	assert.Zero(t, f.lookup.calls)
}

func TestDeadline_UpdateIsIdempotent(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, userA, "token-a", 7, "2024-01-01")
	require.NoError(t, err)

	first, err := f.svc.Update(ctx, userA, "token-a", 7, "2024-02-02")
	require.NoError(t, err)
	second, err := f.svc.Update(ctx, userA, "token-a", 7, "2024-02-02")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Deadline, second.Deadline)
	list, err := f.svc.List(ctx, userA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-02-02", list[0].Deadline)
}

func TestDeadline_DuplicateCreate(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, userA, "token-a", 7, "2024-01-01")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, userA, "token-a", 7, "2024-03-03")

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "deadline already exists for task", apperr.Message(err))
}

func TestDeadline_DeleteAndNotFound(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, err := f.svc.Update(ctx, userA, "token-a", 7, "2024-01-01")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Deadline not found", apperr.Message(err))

	_, err = f.svc.Create(ctx, userA, "token-a", 7, "2024-01-01")
	require.NoError(t, err)
	deleted, err := f.svc.Delete(ctx, userA, "token-a", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted.TaskID)

	_, err = f.svc.Get(ctx, userA, 7)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	evs := f.events.events[userA.UserID]
	require.Len(t, evs, 2)
	assert.Equal(t, domain.DeadlineDeleted, evs[1].Type)
}

func TestDeadline_ReadsDoNotCallTaskService(t *testing.T) {
	f := newDeadlineFixture()
	ctx := context.Background()

	_, _ = f.svc.List(ctx, userA)
	_, _ = f.svc.Get(ctx, userA, 7)
	assert.Zero(t, f.lookup.calls)
}
