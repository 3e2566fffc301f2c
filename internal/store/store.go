// Package store persists the ordered task sequence to a JSON file.
package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskflow/internal/task"
)

// ErrCorrupt is returned by Load when the task file exists but cannot be used.
var ErrCorrupt = errors.New("task file is corrupt")

// ErrRead and ErrWrite wrap I/O failures on the task file.
var (
	ErrRead  = errors.New("cannot read task file")
	ErrWrite = errors.New("cannot write task file")
)

// errDirSync marks a failure to fsync the directory after the rename.
// The file already holds the new contents at that point.
var errDirSync = errors.New("sync task file directory")

// LoadResult tells an initial (missing) file apart from a loaded one.
type LoadResult int

const (
	// LoadedFile means the task file existed and was read.
	LoadedFile LoadResult = iota
	// LoadedEmpty means there was no task file; the sequence starts empty.
	LoadedEmpty
)

func (r LoadResult) String() string {
	if r == LoadedEmpty {
		return "empty"
	}
	return "file"
}

//go:embed task.schema.json
var schemaSource string

var fileSchema = jsonschema.MustCompileString("task.schema.json", schemaSource)

// Store owns the in-memory task sequence and its backing file.
type Store struct {
	path    string
	tasks   []task.Task
	dropped int
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store backed by path. Nothing is read until Load.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Tasks returns a copy of the task sequence in insertion order.
func (s *Store) Tasks() []task.Task {
	return slices.Clone(s.tasks)
}

// Dropped returns how many duplicate records the last Load discarded.
func (s *Store) Dropped() int {
	return s.dropped
}

// Commit replaces the sequence and saves it. If the save fails the
// previous sequence is restored, so memory and file stay in agreement.
func (s *Store) Commit(tasks []task.Task) error {
	prev := s.tasks
	s.tasks = tasks
	if err := s.Save(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// Load reads the backing file. A missing file yields an empty sequence and
// LoadedEmpty. On error the in-memory sequence is left untouched.
func (s *Store) Load() (LoadResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = nil
			s.dropped = 0
			s.logger.Debug("no task file yet", "path", s.path)
			return LoadedEmpty, nil
		}
		return LoadedFile, fmt.Errorf("%w: %w", ErrRead, err)
	}

	tasks, err := decode(data)
	if err != nil {
		return LoadedFile, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	kept, dropped := s.dedupe(tasks)
	s.tasks = kept
	s.dropped = dropped
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(kept))
	return LoadedFile, nil
}

// Save writes the whole sequence to the backing file via a temp file and
// rename. Once the rename succeeds the save counts as done; a failed
// directory fsync after it is only logged.
func (s *Store) Save() error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		if !errors.Is(err, errDirSync) {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		s.logger.Warn("task file saved but not synced", "path", s.path, "err", err)
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// decode validates raw file bytes and turns them into normalized tasks.
func decode(data []byte) ([]task.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := fileSchema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		st, err := task.NormalizeStoredStatus(string(tasks[i].Status))
		if err != nil {
			return nil, fmt.Errorf("[%d].status: %w", i, err)
		}
		tasks[i].Status = st
		if err := tasks[i].Validate(); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return tasks, nil
}

// dedupe keeps the first task of every case-insensitive title.
func (s *Store) dedupe(tasks []task.Task) ([]task.Task, int) {
	kept := make([]task.Task, 0, len(tasks))
	dropped := 0
	for _, t := range tasks {
		dup := slices.ContainsFunc(kept, func(k task.Task) bool {
			return task.SameTitle(k.Title, t.Title)
		})
		if dup {
			dropped++
			s.logger.Warn("dropping duplicate task", "title", t.Title, "path", s.path)
			continue
		}
		kept = append(kept, t)
	}
	return kept, dropped
}

// schemaError reduces a schema validation error to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := pointerToPath(ve.InstanceLocation)
	if path == "" {
		return errors.New(ve.Message)
	}
	return fmt.Errorf("%s: %s", path, ve.Message)
}

// pointerToPath renders a JSON pointer like /0/status as [0].status.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("%w: %w", errDirSync, err)
	}
	return nil
}

var syncDir = func(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
