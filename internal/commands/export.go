package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/export"
	"taskflow/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd renders the task list as json, csv or pdf.
type ExportCmd struct {
	format string
	path   string
}

// SetFormat sets the --format value (for testing).
func (c *ExportCmd) SetFormat(f string) {
	c.format = f
}

// SetOut sets the --out value (for testing).
func (c *ExportCmd) SetOut(path string) {
	c.path = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string     { return "taskflow export [--format json|csv|pdf] [--out <path>]" }
func (c *ExportCmd) NeedsStore() bool  { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
	fs.StringVar(&c.path, "out", "", "")
	fs.StringVar(&c.path, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := c.format
	if format == "" {
		format = cfg.ExportFormat
	}
	if format == "" {
		format = config.DefaultExportFormat
	}

	tasks, err := svc.List(ctx, "")
	if err != nil {
		return reportError(errOut, err, exitcode.StorageError)
	}
	data, err := export.Render(format, tasks)
	if err != nil {
		return reportError(errOut, err, exitcode.UserError)
	}

	if c.path == "" {
		if _, err := out.Write(data); err != nil {
			return reportError(errOut, err, exitcode.StorageError)
		}
		return exitcode.Success
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(errOut, "error: failed to create %s: %v\n", dir, err)
			return exitcode.StorageError
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write %s: %v\n", c.path, err)
		return exitcode.StorageError
	}
	cfg.Log().Info("exported tasks", "format", format, "path", c.path, "count", len(tasks))

	if !cfg.Quiet {
		fmt.Fprintf(out, "exported %d tasks to %s\n", len(tasks), c.path)
	}
	return exitcode.Success
}
