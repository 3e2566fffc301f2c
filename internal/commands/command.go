// Package commands holds the taskflow subcommands and their registry.
package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/service"
)

// Command is one taskflow subcommand.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis is the one-line description shown by help.
	Synopsis() string
	Usage() string

	// NeedsStore reports whether the task file must be loaded first.
	// help, version, login and logout never touch it.
	NeedsStore() bool

	// RegisterFlags adds the command's own flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns the process exit code. svc is nil unless
	// NeedsStore is true.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
