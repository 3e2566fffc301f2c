// Package ui provides the interactive terminal menu.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/output"
	"taskflow/internal/service"
	"taskflow/internal/task"
)

// Run starts the menu on the given terminal streams and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, svc service.Service, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(NewModel(ctx, svc),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	return err
}

type screen int

const (
	screenMenu screen = iota
	screenForm
	screenList
)

type action int

const (
	actionAdd action = iota
	actionStatus
	actionRemove
)

type field struct {
	label string
	value string
}

// Model is the bubbletea model of the menu.
type Model struct {
	ctx     context.Context
	svc     service.Service
	screen  screen
	action  action
	fields  []field
	focus   int
	filter  task.Status
	tasks   []task.Task
	counts  map[task.Status]int
	message string
	loadErr error
}

// NewModel creates a menu model over svc.
func NewModel(ctx context.Context, svc service.Service) *Model {
	m := &Model{ctx: ctx, svc: svc}
	m.refresh()
	return m
}

// Message returns the result line of the last action.
func (m *Model) Message() string {
	return m.message
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case screenForm:
		return m.updateForm(key)
	case screenList:
		return m.updateList(key)
	default:
		return m.updateMenu(key)
	}
}

func (m *Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "1":
		m.startForm(actionAdd, "Title", "Description", "Due date")
	case "2":
		m.screen = screenList
		m.filter = ""
		m.message = ""
		m.refresh()
	case "3":
		m.startForm(actionStatus, "Title", "New status (pending, in_progress, done)")
	case "4":
		m.startForm(actionRemove, "Title")
	case "5", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q":
		m.screen = screenMenu
		m.filter = ""
		m.refresh()
	case "p":
		m.filter = task.StatusPending
		m.refresh()
	case "i":
		m.filter = task.StatusInProgress
		m.refresh()
	case "d":
		m.filter = task.StatusDone
		m.refresh()
	case "a":
		m.filter = ""
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.fields[m.focus]
	switch key.Type {
	case tea.KeyEsc:
		m.screen = screenMenu
		m.message = ""
	case tea.KeyEnter:
		if m.focus < len(m.fields)-1 {
			m.focus++
			return m, nil
		}
		m.submit()
		m.screen = screenMenu
		m.refresh()
	case tea.KeyBackspace:
		if r := []rune(f.value); len(r) > 0 {
			f.value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		f.value += " "
	case tea.KeyRunes:
		f.value += string(key.Runes)
	}
	return m, nil
}

func (m *Model) startForm(a action, labels ...string) {
	m.screen = screenForm
	m.action = a
	m.focus = 0
	m.message = ""
	m.fields = make([]field, len(labels))
	for i, l := range labels {
		m.fields[i] = field{label: l}
	}
}

// submit runs the action of the current form and records the result line.
func (m *Model) submit() {
	var err error
	var done string
	switch m.action {
	case actionAdd:
		_, err = m.svc.Create(m.ctx, m.fields[0].value, m.fields[1].value, m.fields[2].value)
		done = "task added"
	case actionStatus:
		err = m.svc.UpdateStatus(m.ctx, m.fields[0].value, m.fields[1].value)
		done = "status updated"
	case actionRemove:
		err = m.svc.Remove(m.ctx, m.fields[0].value)
		done = "task removed"
	}
	if err != nil {
		m.message = "error: " + err.Error()
		return
	}
	m.message = done
}

func (m *Model) refresh() {
	m.counts = m.svc.Stats(m.ctx)
	tasks, err := m.svc.List(m.ctx, m.filter)
	m.tasks, m.loadErr = tasks, err
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)
	b.WriteString("  " + output.Summary(m.counts) + "\n\n")

	switch m.screen {
	case screenForm:
		m.writeForm(&b)
	case screenList:
		m.writeList(&b)
	default:
		writeMenu(&b)
	}

	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	writeFooter(&b, m.screen)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "taskflow"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeMenu(b *strings.Builder) {
	b.WriteString("  1  Add task\n")
	b.WriteString("  2  List tasks\n")
	b.WriteString("  3  Update status\n")
	b.WriteString("  4  Remove task\n")
	b.WriteString("  5  Quit\n\n")
}

func (m *Model) writeForm(b *strings.Builder) {
	for i, f := range m.fields {
		cursor := ""
		if i == m.focus {
			cursor = "_"
		}
		fmt.Fprintf(b, "  %s: %s%s\n", f.label, f.value, cursor)
	}
	b.WriteString("\n")
}

func (m *Model) writeList(b *strings.Builder) {
	if m.filter != "" {
		fmt.Fprintf(b, "Filter: %s (a for all)\n\n", m.filter)
	}
	if m.loadErr != nil {
		b.WriteString("error: " + m.loadErr.Error() + "\n\n")
		return
	}
	if len(m.tasks) == 0 {
		b.WriteString("no tasks found\n\n")
		return
	}
	for i, t := range m.tasks {
		output.FormatTask(b, i+1, t)
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, s screen) {
	switch s {
	case screenForm:
		b.WriteString("enter next/confirm | esc back\n")
	case screenList:
		b.WriteString("p pending | i in progress | d done | a all | esc back\n")
	default:
		b.WriteString("1-5 choose | q quit\n")
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
