// Package errors provides structured error handling for the easy-npm-publish CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Prerequisite errors occur when the repository, manifest or git CLI is missing.
	Prerequisite
	// Runtime errors occur while talking to git, the registry or GitHub.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists the steps shown under "To fix this:".
	Remediation []string
	// Usage is the correct command syntax, shown for argument errors.
	Usage string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause so errors.Is and errors.As see through
// a CLIError.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WithUsage sets the usage line and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError creates an error for invalid flags or arguments.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewConfigError creates an error for an invalid configuration.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewPrerequisiteError creates an error for a missing repository, manifest or tool.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// NewRuntimeError creates an error for a failed git, registry or GitHub operation.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap wraps err in a CLIError that keeps err's message. Wrap(nil) is nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, err.Error(), remediation)
	e.Cause = err
	return e
}

// WrapWithMessage is Wrap with message prefixed to err's message.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Cause = err
	return e
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
