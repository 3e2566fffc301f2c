// Package service defines the task operations used by the commands and the menu.
package service

import (
	"context"

	"taskflow/internal/task"
)

// Service defines the task operations.
// Commands and the interactive menu only talk to this interface.
type Service interface {
	// Create adds a pending task. Fails with ErrDuplicateTitle if a task
	// with the same case-insensitive title exists.
	Create(ctx context.Context, title, description, dueDate string) (task.Task, error)

	// List returns tasks in insertion order. An empty filter returns all
	// tasks; otherwise only tasks with that status.
	List(ctx context.Context, filter task.Status) ([]task.Task, error)

	// UpdateStatus sets the status of the first task matching title.
	// status is parsed case-insensitively.
	UpdateStatus(ctx context.Context, title, status string) error

	// Remove deletes the first task matching title.
	Remove(ctx context.Context, title string) error

	// Find looks a task up by case-insensitive title.
	Find(ctx context.Context, title string) (task.Task, bool)

	// Stats counts tasks per status. Every status has an entry.
	Stats(ctx context.Context) map[task.Status]int
}
