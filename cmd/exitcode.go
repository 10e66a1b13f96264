package cmd

import (
	"errors"
	"os"

	"admerge/pkg/config"
	"admerge/pkg/merge"
)

// Exit codes follow the BSD sysexits convention.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 64
	ExitInsufficient = 65
	ExitNoInput      = 66
	ExitIO           = 74
)

// usageError marks mistakes in how the command was invoked.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// ExitCode maps an error returned by Execute to a process exit status.
// Only sentinels and error types are consulted, never message text.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var uerr *usageError
	if errors.As(err, &uerr) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrConflictingSkip) {
		return ExitUsage
	}

	switch merge.KindOf(err) {
	case merge.KindInvalidOptions:
		return ExitUsage
	case merge.KindInsufficientContent:
		return ExitInsufficient
	case merge.KindEmptyInput:
		return ExitNoInput
	case merge.KindIO:
		return ExitIO
	}

	var perr *os.PathError
	if errors.As(err, &perr) {
		return ExitIO
	}
	return ExitFailure
}
