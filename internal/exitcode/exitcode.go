package exitcode

import (
	"os"

	"github.com/opsdesk/deskctl/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 3

	// NetworkError indicates a network connectivity issue
	NetworkError = 4

	// NotFoundError indicates a requested resource does not exist
	NotFoundError = 5

	// ServerError indicates the remote platform reported a fault
	ServerError = 6

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.KindOf(err) {
	case errors.KindAuth, errors.KindPermission:
		return AuthError
	case errors.KindNetwork:
		return NetworkError
	case errors.KindNotFound:
		return NotFoundError
	case errors.KindServer:
		return ServerError
	default:
		return GeneralError
	}
}
