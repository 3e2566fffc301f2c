package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/remote/googletasks"
	"taskflow/internal/service"
	"taskflow/internal/task"
)

func init() {
	Register(&PushCmd{})
}

// Pusher uploads local tasks to a remote list.
type Pusher interface {
	Push(ctx context.Context, listName string, local []task.Task) (googletasks.PushResult, error)
}

// PushCmd copies the local tasks into a Google Tasks list.
type PushCmd struct {
	listName string
	target   Pusher
}

// SetListName sets the --list value (for testing).
func (c *PushCmd) SetListName(name string) {
	c.listName = name
}

// SetTarget replaces the Google Tasks client (for testing).
func (c *PushCmd) SetTarget(p Pusher) {
	c.target = p
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Push tasks to Google Tasks" }
func (c *PushCmd) Usage() string     { return "taskflow push [--list <list-name>]" }
func (c *PushCmd) NeedsStore() bool  { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	target := c.target
	if target == nil {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskflow login)")
			return exitcode.AuthError
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			return reportError(errOut, err, exitcode.AuthError)
		}
		target = client
	}

	listName := c.listName
	if listName == "" {
		listName = cfg.GoogleList
	}
	if listName == "" {
		listName = config.DefaultGoogleList
	}

	tasks, err := svc.List(ctx, "")
	if err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}

	res, err := target.Push(ctx, listName, tasks)
	if err != nil {
		return reportError(errOut, err, exitcode.RemoteError)
	}
	cfg.Log().Info("push finished", "list", listName, "created", res.Created, "updated", res.Updated)

	if !cfg.Quiet {
		fmt.Fprintf(out, "pushed %d created, %d updated\n", res.Created, res.Updated)
	}
	return exitcode.Success
}
