// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, duplicate, invalid status).
	UserError = 1

	// AuthError indicates missing or rejected Google credentials.
	AuthError = 2

	// StorageError indicates the task file could not be read, parsed or written.
	StorageError = 3

	// RemoteError indicates a Google Tasks API or network error.
	RemoteError = 4
)
