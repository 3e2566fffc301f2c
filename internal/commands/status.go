package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/task"
)

func init() {
	Register(&StatusCmd{})
	Register(&DoneCmd{})
	Register(&StartCmd{})
}

// StatusCmd sets an arbitrary status. The last argument is the status.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return []string{"set"} }
func (c *StatusCmd) Synopsis() string  { return "Change the status of a task" }
func (c *StatusCmd) Usage() string     { return "taskflow status <ref> <pending|in_progress|done>" }
func (c *StatusCmd) NeedsStore() bool  { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	return runSetStatus(ctx, cfg, svc, args[:len(args)-1], args[len(args)-1], out, errOut)
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "taskflow done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, svc, args, string(task.StatusDone), out, errOut)
}

// StartCmd marks a task in progress.
type StartCmd struct{}

func (c *StartCmd) Name() string      { return "start" }
func (c *StartCmd) Aliases() []string { return nil }
func (c *StartCmd) Synopsis() string  { return "Mark a task in progress" }
func (c *StartCmd) Usage() string     { return "taskflow start <ref>" }
func (c *StartCmd) NeedsStore() bool  { return true }

func (c *StartCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StartCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, svc, args, string(task.StatusInProgress), out, errOut)
}

// runSetStatus is the shared implementation for status, done and start.
// The status is checked before the ref so an invalid status never hits a lookup.
func runSetStatus(ctx context.Context, cfg *config.Config, svc service.Service, refArgs []string, status string, out, errOut io.Writer) int {
	st, err := task.ParseStatus(status)
	if err != nil {
		return reportError(errOut, err, exitcode.UserError)
	}

	title, err := ResolveRef(ctx, svc, refArgs)
	if err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}

	if err := svc.UpdateStatus(ctx, title, string(st)); err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}
	cfg.Log().Debug("status updated", "title", title, "status", st)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
