package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/service"
	"taskflow/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskflow` (no args) and `taskflow list`.
type ListCmd struct {
	status  string
	summary bool
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(s string) {
	c.status = s
}

// SetSummary enables the counts line (for testing).
func (c *ListCmd) SetSummary(on bool) {
	c.summary = on
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskflow list [--status <status>] [--summary]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.BoolVar(&c.summary, "summary", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.List(ctx, task.Status(c.status))
	if err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}

	if len(tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	// Numbers are positions in the listed view; refs use the unfiltered order.
	for i, t := range tasks {
		output.FormatTask(out, i+1, t)
	}

	if c.summary {
		output.FormatSummary(out, svc.Stats(ctx))
	}
	return exitcode.Success
}
