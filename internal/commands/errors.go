package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskflow/internal/exitcode"
	"taskflow/internal/export"
	"taskflow/internal/remote/googletasks"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

// reportError prints err as "error: <msg>" and returns its exit code.
// Errors of unknown kind get fallback.
func reportError(errOut io.Writer, err error, fallback int) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitCodeFor(err, fallback)
}

func exitCodeFor(err error, fallback int) int {
	switch {
	case errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, ErrRefRequired),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, context.Canceled):
		return exitcode.UserError
	case errors.Is(err, store.ErrCorrupt),
		errors.Is(err, store.ErrRead),
		errors.Is(err, store.ErrWrite):
		return exitcode.StorageError
	case errors.Is(err, googletasks.ErrUnauthorized):
		return exitcode.AuthError
	}
	return fallback
}

// ExitCodeFor maps an error to the exit code the commands would use.
// The dispatcher uses it for errors raised before a command runs.
func ExitCodeFor(err error) int {
	return exitCodeFor(err, exitcode.StorageError)
}
