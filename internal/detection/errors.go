package detection

import (
	"fmt"
	"strings"
)

type UnsupportedFileTypeError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("Unknown file type %q: %s", e.Extension, e.Path)
}

func (e *UnsupportedFileTypeError) Is(target error) bool {
	t, ok := target.(*UnsupportedFileTypeError)
	if !ok {
		return false
	}
	return e.Extension == t.Extension
}

// InvalidLocalizedCallError lists every call in one file whose first argument
// is not a string literal.
type InvalidLocalizedCallError struct {
	Path  string
	Calls []string
}

func (e *InvalidLocalizedCallError) Error() string {
	return fmt.Sprintf("Found invalid calls to Localized in file: %s, [%s]", e.Path, strings.Join(quoteAll(e.Calls), ", "))
}

func (e *InvalidLocalizedCallError) Is(target error) bool {
	_, ok := target.(*InvalidLocalizedCallError)
	return ok
}

// CaptureGroupMismatchError means a call pattern produced a different number of
// fields than its capture table describes. It points at a bug in a dialect.
type CaptureGroupMismatchError struct {
	Pattern  string
	Expected int
	Actual   int
}

func (e *CaptureGroupMismatchError) Error() string {
	return fmt.Sprintf("Found match with invalid number of capture groups: expected %d, got %d for pattern %s", e.Expected, e.Actual, e.Pattern)
}

func quoteAll(values []string) []string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return quoted
}
