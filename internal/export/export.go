// Package export renders the task list as json, csv or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"taskflow/internal/task"
)

// ErrUnknownFormat is returned for a format other than json, csv or pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []string {
	return []string{"json", "csv", "pdf"}
}

// Render encodes tasks in the given format.
func Render(format string, tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "csv":
		return renderCSV(tasks)
	case "pdf":
		return renderPDF(tasks)
	default:
		return nil, fmt.Errorf("%w: %s (want one of: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

func renderCSV(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"title", "description", "created_at", "due_date", "status"})
	for _, t := range tasks {
		_ = w.Write([]string{t.Title, t.Description, t.CreatedAt.Format(task.TimeLayout), t.DueDate, string(t.Status)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(tasks []task.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task Report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks.")
	}
	for i, t := range tasks {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s [%s]", i+1, t.Title, t.Status)), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		if t.Description != "" {
			pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		}
		line := "Created " + t.CreatedAt.Format(task.TimeLayout)
		if t.DueDate != "" {
			line += "   Due " + t.DueDate
		}
		pdf.MultiCell(0, 5, tr(line), "0", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
