package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for bookspec CLI
const (
	// ExitSuccess indicates all scenarios passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more assertions failed
	ExitTestFailure = 1

	// ExitSchemaError indicates a document did not match its schema
	ExitSchemaError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a scenario could not complete, usually a
	// network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitCodeFor maps run counts to an exit code. Failed assertions win over
// errored scenarios.
func exitCodeFor(failed, errored int) int {
	switch {
	case failed > 0:
		return ExitTestFailure
	case errored > 0:
		return ExitNetworkError
	default:
		return ExitSuccess
	}
}

// exitError carries the exit code a command wants the process to end with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode returns the code err asks for, ExitUsageError for any other
// error, and ExitSuccess for nil.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
