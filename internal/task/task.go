// Package task defines the Task entity, its status values and its on-disk record.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimeLayout is the layout of the creation timestamp in the task file.
const TimeLayout = "2006-01-02 15:04:05"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// ErrInvalidStatus is returned when a status string is not one of the known values.
var ErrInvalidStatus = errors.New("invalid status")

// legacyStatuses maps the values written by older task files.
var legacyStatuses = map[string]Status{
	"pendente":     StatusPending,
	"em_andamento": StatusInProgress,
	"concluida":    StatusDone,
}

var validate = validator.New()

// Statuses returns the valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone}
}

// ParseStatus converts s to a Status. Matching is case-insensitive but
// surrounding whitespace and legacy names are rejected.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusInProgress, StatusDone:
		return st, nil
	}
	return "", fmt.Errorf("%w: %s (want pending, in_progress or done)", ErrInvalidStatus, s)
}

// NormalizeStoredStatus reads a status from a task file. It is more
// lenient than ParseStatus: whitespace is trimmed and the names written
// by older files are mapped to their current equivalents.
func NormalizeStoredStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if st, ok := legacyStatuses[norm]; ok {
		return st, nil
	}
	return ParseStatus(norm)
}

// Task is a titled unit of work.
// Title is the key: two tasks never share a title under case folding.
type Task struct {
	Title       string    `validate:"required"`
	Description string
	CreatedAt   time.Time `validate:"required"`
	DueDate     string
	Status      Status `validate:"oneof=pending in_progress done"`
}

// New returns a pending task created at now, truncated to whole seconds
// so that it survives the task file's timestamp layout unchanged.
func New(title, description, dueDate string, now time.Time) Task {
	return Task{
		Title:       title,
		Description: description,
		CreatedAt:   now.Truncate(time.Second),
		DueDate:     dueDate,
		Status:      StatusPending,
	}
}

// Validate checks the struct constraints of t.
func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("task %q: %w", t.Title, err)
	}
	return nil
}

// Equal reports whether t and o hold the same values.
func (t Task) Equal(o Task) bool {
	return t.Title == o.Title &&
		t.Description == o.Description &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.DueDate == o.DueDate &&
		t.Status == o.Status
}

// SameTitle reports whether two titles name the same task.
func SameTitle(a, b string) bool {
	return strings.EqualFold(a, b)
}

// record is the JSON shape of a task in the task file.
type record struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	CreatedAt   string `json:"data_criacao"`
	DueDate     string `json:"data_limite"`
	Status      string `json:"status"`
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.In(time.Local).Format(TimeLayout),
		DueDate:     t.DueDate,
		Status:      string(t.Status),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The status is copied verbatim; the store normalizes it with NormalizeStoredStatus.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	created, err := parseCreatedAt(r.CreatedAt)
	if err != nil {
		return fmt.Errorf("task %q: data_criacao: %w", r.Title, err)
	}
	*t = Task{
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   created,
		DueDate:     r.DueDate,
		Status:      Status(r.Status),
	}
	return nil
}

func parseCreatedAt(s string) (time.Time, error) {
	if ts, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	}
	return ts, nil
}
