// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"taskflow/internal/service"
	"taskflow/internal/task"
)

// FixedTime is the creation time given to tasks made by FakeService.
var FixedTime = time.Date(2025, 1, 2, 9, 30, 0, 0, time.Local)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []task.Task

	// Error injection for testing
	CreateErr error
	ListErr   error
	UpdateErr error
	RemoveErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask seeds a task without going through Create.
func (f *FakeService) AddTask(title string, status task.Status, due string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task.Task{
		Title:     title,
		CreatedAt: FixedTime,
		DueDate:   due,
		Status:    status,
	})
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []task.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, title, description, dueDate string) (task.Task, error) {
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, service.ErrEmptyTitle
	}
	if f.indexOf(title) >= 0 {
		return task.Task{}, fmt.Errorf("%w: %s", service.ErrDuplicateTitle, title)
	}
	t := task.New(title, description, dueDate, FixedTime)
	f.tasks = append(f.tasks, t)
	return t, nil
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context, filter task.Status) ([]task.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := slices.Clone(f.tasks)
	if filter == "" {
		return result, nil
	}
	st, err := task.ParseStatus(string(filter))
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(result, func(t task.Task) bool {
		return t.Status != st
	}), nil
}

// UpdateStatus implements service.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, title, status string) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	st, err := task.ParseStatus(status)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(title)
	if i < 0 {
		return fmt.Errorf("%w: %s", service.ErrNotFound, title)
	}
	f.tasks[i].Status = st
	return nil
}

// Remove implements service.Service.
func (f *FakeService) Remove(ctx context.Context, title string) error {
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(title)
	if i < 0 {
		return fmt.Errorf("%w: %s", service.ErrNotFound, title)
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// Find implements service.Service.
func (f *FakeService) Find(ctx context.Context, title string) (task.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.indexOf(title); i >= 0 {
		return f.tasks[i], true
	}
	return task.Task{}, false
}

// Stats implements service.Service.
func (f *FakeService) Stats(ctx context.Context) map[task.Status]int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	counts := make(map[task.Status]int, 3)
	for _, st := range task.Statuses() {
		counts[st] = 0
	}
	for _, t := range f.tasks {
		counts[t.Status]++
	}
	return counts
}

func (f *FakeService) indexOf(title string) int {
	return slices.IndexFunc(f.tasks, func(t task.Task) bool {
		return task.SameTitle(t.Title, title)
	})
}
