package store

import (
	"slices"

	"taskflow/internal/task"
)

// Len returns the number of tasks held.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Replace sets the in-memory sequence without saving.
func (s *Store) Replace(tasks []task.Task) {
	s.tasks = slices.Clone(tasks)
}

// SetSyncDir swaps the directory fsync for the duration of a test.
func SetSyncDir(fn func(dir string) error) (restore func()) {
	prev := syncDir
	syncDir = fn
	return func() { syncDir = prev }
}
