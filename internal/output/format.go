// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskflow/internal/task"
)

// FormatTask formats a numbered task line for the list command.
// Format: "{N:>4}  [{STATUS}]  {TITLE}" plus "  (due {DUE})" when a due date is set.
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  [%s]  %s", num, t.Status, normalizeTitle(t.Title))
	if due := strings.TrimSpace(t.DueDate); due != "" {
		fmt.Fprintf(w, "  (due %s)", due)
	}
	fmt.Fprintln(w)
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(t.Title))
	fmt.Fprintf(w, "Description: %s\n", orDash(t.Description))
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Format(task.TimeLayout))
	fmt.Fprintf(w, "Due:         %s\n", orDash(t.DueDate))
	fmt.Fprintf(w, "Status:      %s\n", t.Status)
}

// FormatSummary prints per-status counts on one line.
func FormatSummary(w io.Writer, counts map[task.Status]int) {
	fmt.Fprintln(w, Summary(counts))
}

// Summary renders per-status counts in lifecycle order.
func Summary(counts map[task.Status]int) string {
	parts := make([]string, 0, len(task.Statuses()))
	for _, st := range task.Statuses() {
		parts = append(parts, fmt.Sprintf("%s: %d", st, counts[st]))
	}
	return strings.Join(parts, "  ")
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
