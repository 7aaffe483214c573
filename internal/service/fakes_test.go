package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"task_deadlines/internal/domain"
	"task_deadlines/internal/ownership"
	"task_deadlines/internal/repository"
	"task_deadlines/internal/taskclient"
)

// taskLookup stands in for the task service: it knows which token belongs to
// which user and returns tasks only to their owner.
type taskLookup struct {
	mu      sync.Mutex
	owners  map[string]int64
	tasks   map[int64]*domain.Task
	failure error
	calls   int
}

func newTaskLookup() *taskLookup {
	return &taskLookup{owners: map[string]int64{}, tasks: map[int64]*domain.Task{}}
}

func (l *taskLookup) GetTask(_ context.Context, token string, id int64) (*domain.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.failure != nil {
		return nil, l.failure
	}
	uid, ok := l.owners[token]
	if !ok {
		return nil, taskclient.ErrUnauthorized
	}
	t, ok := l.tasks[id]
	if !ok || t.UserID != uid {
		return nil, taskclient.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type deadlineStore struct {
	mu     sync.Mutex
	byTask map[int64]*domain.Deadline
	nextID int64
	writes int
}

func newDeadlineStore() *deadlineStore {
	return &deadlineStore{byTask: map[int64]*domain.Deadline{}}
}

func (s *deadlineStore) ListByUser(_ context.Context, userID int64) ([]*domain.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*domain.Deadline, 0)
	for _, d := range s.byTask {
		if d.UserID == userID {
			cp := *d
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (s *deadlineStore) GetByTask(_ context.Context, taskID, userID int64) (*domain.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byTask[taskID]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *deadlineStore) Create(_ context.Context, g ownership.Grant, value string) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errors.New("no grant")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byTask[g.TaskID()]; ok {
		return nil, repository.ErrDeadlineExists
	}
	s.nextID++
	s.writes++
	now := time.Now()
	d := &domain.Deadline{ID: s.nextID, TaskID: g.TaskID(), Deadline: value, UserID: g.Identity().UserID, CreatedAt: now, UpdatedAt: now}
	s.byTask[d.TaskID] = d
	cp := *d
	return &cp, nil
}

func (s *deadlineStore) Update(_ context.Context, g ownership.Grant, value string) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errors.New("no grant")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byTask[g.TaskID()]
	if !ok || d.UserID != g.Identity().UserID {
		return nil, repository.ErrNotFound
	}
	s.writes++
	d.Deadline = value
	cp := *d
	return &cp, nil
}

func (s *deadlineStore) Delete(_ context.Context, g ownership.Grant) (*domain.Deadline, error) {
	if !g.Valid() {
		return nil, errors.New("no grant")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byTask[g.TaskID()]
	if !ok || d.UserID != g.Identity().UserID {
		return nil, repository.ErrNotFound
	}
	s.writes++
	delete(s.byTask, g.TaskID())
	return d, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[int64][]domain.DeadlineEvent
}

func (p *recordingPublisher) Publish(userID int64, ev domain.DeadlineEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[int64][]domain.DeadlineEvent{}
	}
	p.events[userID] = append(p.events[userID], ev)
}

type userStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = map[string]*domain.User{}
	}
	if _, ok := s.users[u.Username]; ok {
		return repository.ErrUsernameTaken
	}
	u.ID = int64(len(s.users) + 1)
	cp := *u
	s.users[u.Username] = &cp
	return nil
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type taskStore struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
}

func newTaskStore() *taskStore { return &taskStore{tasks: map[int64]*domain.Task{}} }

func (s *taskStore) ListByUser(_ context.Context, userID int64) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (s *taskStore) GetByID(_ context.Context, id, userID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *taskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *taskStore) Update(_ context.Context, id, userID int64, description *string, done *bool) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if description != nil {
		t.Description = *description
	}
	if done != nil {
		t.Done = *done
	}
	cp := *t
	return &cp, nil
}

func (s *taskStore) Delete(_ context.Context, id, userID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	delete(s.tasks, id)
	return t, nil
}
