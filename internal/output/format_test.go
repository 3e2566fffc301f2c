package output

import (
	"bytes"
	"testing"
	"time"

	"taskflow/internal/task"
)

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 1, task.Task{Title: "Buy milk", Status: task.StatusPending, DueDate: "2025-01-01"})
	FormatTask(&buf, 12, task.Task{Title: "line\nbreak", Status: task.StatusDone})

	want := "   1  [pending]  Buy milk  (due 2025-01-01)\n  12  [done]  line break\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskDetail(&buf, task.Task{
		Title:     "Buy milk",
		CreatedAt: time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local),
		Status:    task.StatusInProgress,
	})

	want := "Title:       Buy milk\n" +
		"Description: -\n" +
		"Created:     2025-01-01 08:00:00\n" +
		"Due:         -\n" +
		"Status:      in_progress\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestSummary(t *testing.T) {
	got := Summary(map[task.Status]int{task.StatusDone: 2, task.StatusPending: 1})
	want := "pending: 1  in_progress: 0  done: 2"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"":          "(untitled)",
		"   ":       "(untitled)",
		"a\r\nb":    "a  b",
		"plain one": "plain one",
	}
	for in, want := range tests {
		if got := normalizeTitle(in); got != want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
