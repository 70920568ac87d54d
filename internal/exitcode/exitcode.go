// Package exitcode defines the process exit codes of the taskdash binary.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments or an unknown subcommand.
	UserError = 1

	// AuthError indicates rejected or missing credentials.
	AuthError = 2

	// BackendError indicates a backend, network or local storage failure.
	BackendError = 3
)
