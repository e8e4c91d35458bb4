// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found).
	UserError = 1

	// AuthError indicates a login or session error.
	AuthError = 2

	// BackendError indicates a gateway/network error.
	BackendError = 3
)
