package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/ui"
)

func init() {
	Register(&MenuCmd{})
}

// MenuCmd starts the interactive menu.
type MenuCmd struct {
	terminal func() bool
}

// SetTerminalCheck overrides the TTY detection (for testing).
func (c *MenuCmd) SetTerminalCheck(fn func() bool) {
	c.terminal = fn
}

func (c *MenuCmd) Name() string      { return "menu" }
func (c *MenuCmd) Aliases() []string { return nil }
func (c *MenuCmd) Synopsis() string  { return "Interactive menu" }
func (c *MenuCmd) Usage() string     { return "taskflow menu" }
func (c *MenuCmd) NeedsStore() bool  { return true }

func (c *MenuCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MenuCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	isTerminal := c.terminal
	if isTerminal == nil {
		isTerminal = func() bool { return ui.IsTTY(os.Stdin) && ui.IsTTY(out) }
	}
	if !isTerminal() {
		fmt.Fprintln(errOut, "error: menu requires a terminal")
		return exitcode.UserError
	}

	if err := ui.Run(ctx, svc, os.Stdin, out); err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}
	return exitcode.Success
}
