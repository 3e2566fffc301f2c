package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"taskflow/internal/store"
	"taskflow/internal/task"
)

// TaskService implements Service over a file-backed store.
// Every successful mutation is saved immediately.
type TaskService struct {
	store *store.Store
	now   func() time.Time
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// New creates a service over an already loaded store.
func New(st *store.Store, opts ...Option) *TaskService {
	s := &TaskService{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the task file at path and returns a service over it.
func Open(path string, logger *log.Logger, opts ...Option) (*TaskService, store.LoadResult, error) {
	st := store.New(path, store.WithLogger(logger))
	res, err := st.Load()
	if err != nil {
		return nil, res, err
	}
	return New(st, opts...), res, nil
}

// Create implements Service.
func (s *TaskService) Create(ctx context.Context, title, description, dueDate string) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, ErrEmptyTitle
	}

	tasks := s.store.Tasks()
	if indexOf(tasks, title) >= 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrDuplicateTitle, title)
	}

	t := task.New(title, description, dueDate, s.now())
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	if err := s.store.Commit(append(tasks, t)); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// List implements Service.
func (s *TaskService) List(ctx context.Context, filter task.Status) ([]task.Task, error) {
	tasks := s.store.Tasks()
	if filter == "" {
		return tasks, nil
	}
	st, err := task.ParseStatus(string(filter))
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(tasks, func(t task.Task) bool {
		return t.Status != st
	}), nil
}

// UpdateStatus implements Service.
func (s *TaskService) UpdateStatus(ctx context.Context, title, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := task.ParseStatus(status)
	if err != nil {
		return err
	}

	tasks := s.store.Tasks()
	i := indexOf(tasks, title)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	tasks[i].Status = st
	return s.store.Commit(tasks)
}

// Remove implements Service.
func (s *TaskService) Remove(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tasks := s.store.Tasks()
	i := indexOf(tasks, title)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	return s.store.Commit(slices.Delete(tasks, i, i+1))
}

// Find implements Service.
func (s *TaskService) Find(ctx context.Context, title string) (task.Task, bool) {
	tasks := s.store.Tasks()
	if i := indexOf(tasks, title); i >= 0 {
		return tasks[i], true
	}
	return task.Task{}, false
}

// Stats implements Service.
func (s *TaskService) Stats(ctx context.Context) map[task.Status]int {
	counts := make(map[task.Status]int, 3)
	for _, st := range task.Statuses() {
		counts[st] = 0
	}
	for _, t := range s.store.Tasks() {
		counts[t.Status]++
	}
	return counts
}

// Dropped returns how many duplicate records were discarded when the task
// file was loaded. They are gone from the file after the next save.
func (s *TaskService) Dropped() int {
	return s.store.Dropped()
}

// indexOf returns the position of the first task titled title, or -1.
func indexOf(tasks []task.Task, title string) int {
	return slices.IndexFunc(tasks, func(t task.Task) bool {
		return task.SameTitle(t.Title, title)
	})
}
