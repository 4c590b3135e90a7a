package cli

import (
	"context"
	"errors"
	"fmt"

	clierrors "github.com/glitch452/easy-npm-publish/internal/errors"
)

// Exit codes for the easy-npm-publish CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a git, registry, publish or GitHub failure
	ExitFailure = 1

	// ExitInvalidConfig indicates the configuration failed validation
	ExitInvalidConfig = 2

	// ExitInvalidArguments indicates invalid command arguments or versions
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates the repository, manifest or git CLI is missing
	ExitMissingDependencies = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitError carries an exit code for failures that were already reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// exitCodeFor maps a failure to its exit code.
func exitCodeFor(cause error, err *clierrors.CLIError) int {
	if errors.Is(cause, context.DeadlineExceeded) {
		return ExitTimeout
	}
	switch err.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitInvalidConfig
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitFailure
	}
}
