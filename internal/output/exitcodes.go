// Package output provides exit-code classification and the console markers
// revcheck prints while scanning revisions.
package output

import "errors"

// Exit codes:
// 0 = all commands succeeded on all revisions
// 1 = a pipeline command returned non-zero on some revision
// 2 = bad input (no command, unknown pipeline, malformed revision spec)
// 3 = unexpected failure (checkout failed, git tooling failure, broken invariant)
const (
	ExitSuccess       = 0
	ExitCommandFailed = 1
	ExitBadInput      = 2
	ExitUnexpected    = 3
)

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewBadInput creates an error for malformed user input (exit code 2).
func NewBadInput(message string) *ExitError {
	return &ExitError{Code: ExitBadInput, Message: message}
}

// NewBadInputWithCause creates a bad-input error wrapping an underlying cause.
func NewBadInputWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitBadInput, Message: message, Cause: cause}
}

// NewCommandFailed creates an error for a failing pipeline command (exit code 1).
func NewCommandFailed(message string) *ExitError {
	return &ExitError{Code: ExitCommandFailed, Message: message}
}

// NewUnexpected creates an error for tool or invariant failures (exit code 3).
func NewUnexpected(message string) *ExitError {
	return &ExitError{Code: ExitUnexpected, Message: message}
}

// NewUnexpectedWithCause creates an unexpected error wrapping an underlying cause.
func NewUnexpectedWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUnexpected, Message: message, Cause: cause}
}

// GetExitCode extracts the exit code from an error. nil maps to ExitSuccess.
// Untyped errors map to ExitBadInput: the only untyped errors that reach the
// top level are argument and flag parsing failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitBadInput
}
