package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskflow/internal/cli"
	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/store"
	"taskflow/internal/task"
	"taskflow/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// isolate points the default config directory at a temp dir and clears
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv(config.EnvTasksFile, "")
	t.Setenv(config.EnvLogLevel, "")
	return filepath.Join(home, config.AppName)
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	var out, errOut bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", task.StatusPending, "")

	stdout, stderr, code := run(t, testFactory(svc))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "   1  [pending]  Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_AliasAndFlags(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()

	stdout, stderr, code := run(t, testFactory(svc), "create", "--desc", "2L", "--due", "2025-01-01", "Buy", "milk")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	got, ok := svc.Find(context.Background(), "Buy milk")
	if !ok || got.Description != "2L" || got.DueDate != "2025-01-01" {
		t.Errorf("unexpected task %+v (found %v)", got, ok)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	stdout, stderr, code := run(t, nil, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolate(t)
	stdout, stderr, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskflow 0.1.0\n" {
		t.Errorf("expected 'taskflow 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	isolate(t)
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	isolate(t)
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--status")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -status\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_CorruptStore(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, fmt.Errorf("%w: %s: unexpected end of JSON input", store.ErrCorrupt, cfg.TasksPath)
	}

	_, stderr, code := run(t, factory, "list")

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.HasPrefix(stderr, "error: task file is corrupt: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FileFlagOverridesConfig(t *testing.T) {
	isolate(t)
	want := filepath.Join(t.TempDir(), "mine.json")

	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg.TasksPath
		return testutil.NewFakeService(), nil
	}

	_, _, code := run(t, factory, "list", "--file", want, "--quiet")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got != want {
		t.Errorf("expected tasks path %q, got %q", want, got)
	}
}

func TestDispatcher_ConfigDirAndToml(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	toml := "tasks_file = \"work.json\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	var got *config.Config
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg
		return testutil.NewFakeService(), nil
	}

	_, stderr, code := run(t, factory, "list", "--config", dir, "--quiet")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got.TasksPath != filepath.Join(dir, "work.json") {
		t.Errorf("unexpected tasks path %q", got.TasksPath)
	}
	// log_level = debug routes debug lines to stderr
	if !strings.Contains(stderr, "dispatch") {
		t.Errorf("expected debug output, got %q", stderr)
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("export_format = \"docx\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--config", dir)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid configuration: export_format") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_StoreNotOpenedForHelp(t *testing.T) {
	isolate(t)
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return nil, fmt.Errorf("should not be called")
	}

	_, _, code := run(t, factory, "version")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if called {
		t.Error("factory called for a command that needs no store")
	}
}
