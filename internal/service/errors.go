package service

import (
	"errors"

	"taskflow/internal/task"
)

var (
	// ErrDuplicateTitle is returned by Create when the title is taken.
	ErrDuplicateTitle = errors.New("task already exists")

	// ErrNotFound is returned when no task matches a title.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned by Create for a blank title.
	ErrEmptyTitle = errors.New("title required")

	// ErrInvalidStatus is returned for a status outside pending, in_progress, done.
	ErrInvalidStatus = task.ErrInvalidStatus
)
