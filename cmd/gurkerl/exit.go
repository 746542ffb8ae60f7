package main

import (
	"context"
	"errors"
	"strings"

	"gurkerl-cli/internal/domain"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 2
	exitAuthRequired = 3
	exitNotFound     = 4
	exitRateLimited  = 5
	exitNetwork      = 6
	exitInvalidReply = 7
	exitInterrupted  = 130
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// isCobraUsageError recognises argument and command errors that cobra reports
// as plain errors.
func isCobraUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "requires at most", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInterrupted), errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.As(err, &usage), errors.Is(err, domain.ErrInvalidQuantity):
		return exitUsage
	case errors.Is(err, domain.ErrNoCredentialsFound),
		errors.Is(err, domain.ErrAuthenticationFailed),
		errors.Is(err, domain.ErrNotAuthenticated):
		return exitAuthRequired
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrItemNotFound):
		return exitNotFound
	case domain.IsRateLimited(err):
		return exitRateLimited
	case errors.Is(err, domain.ErrNetwork):
		return exitNetwork
	case errors.Is(err, domain.ErrInvalidResponse):
		return exitInvalidReply
	default:
		return exitFailure
	}
}

// errorMessage adds the next step for errors the user can act on.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInterrupted), errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return err.Error() + "\nRun 'gurkerl auth login' to sign in again."
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not logged in. Run 'gurkerl auth login' first."
	default:
		return err.Error()
	}
}
