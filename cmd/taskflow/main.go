// Package main is the entry point for the taskflow CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskflow/internal/cli"
	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/service"
)

func main() {
	// Cancel on interrupt so network calls stop early
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		svc, res, err := service.Open(cfg.TasksPath, cfg.Log())
		if err != nil {
			return nil, err
		}
		cfg.Log().Debug("task file", "path", cfg.TasksPath, "result", res)
		if n := svc.Dropped(); n > 0 {
			cfg.Log().Warn("ignored duplicate tasks in task file", "path", cfg.TasksPath, "count", n)
		}
		return svc, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
