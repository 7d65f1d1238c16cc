package lsk

import "fmt"

// exitCodeError carries the process exit code for outcomes that have already
// been reported to the user.
type exitCodeError struct {
	code   int
	reason string
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("%s (exit code %d)", e.reason, e.code)
}

func (e *exitCodeError) ExitCode() int {
	return e.code
}

var (
	errChangesPending = &exitCodeError{code: 1, reason: "localized string changes pending"}
	errInvalidCalls   = &exitCodeError{code: 1, reason: "invalid localized string calls"}
)
