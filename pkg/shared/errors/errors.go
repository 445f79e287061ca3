package errors

import (
	"errors"
)

// Exit codes of the sariflint commands.
const (
	ExitOK         = 0
	ExitFailed     = 1
	ExitUsageError = 2
)

// CommandError is returned by a command that wants the process to exit with ExitCode.
type CommandError struct {
	ExitCode int
	Err      error
}

// Error implements the error interface, returning the message of the wrapped error.
func (e *CommandError) Error() string {
	if e.Err == nil {
		return "command failed"
	}
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with an exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode: code,
		Err:      err,
	}
}

// ExitCode returns the exit code carried by err: 0 for nil, the code of a
// wrapped CommandError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitFailed
}
