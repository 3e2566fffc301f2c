package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show a task" }
func (c *ShowCmd) Usage() string     { return "taskflow show <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title, err := ResolveRef(ctx, svc, args)
	if err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}
	t, _ := svc.Find(ctx, title)
	output.FormatTaskDetail(out, t)
	return exitcode.Success
}
