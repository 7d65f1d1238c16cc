package extraction

import (
	"fmt"
	"strings"
)

// KeyConflictError reports call sites in one bundle that share a key but
// disagree on the comment. It is only raised in strict mode.
type KeyConflictError struct {
	Bundle   string
	Key      string
	Value    string
	Comments []string
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("Key %s (%q) in %s has conflicting comments: %s", e.Key, e.Value, e.Bundle, strings.Join(quoteAll(e.Comments), ", "))
}

func (e *KeyConflictError) Is(target error) bool {
	t, ok := target.(*KeyConflictError)
	if !ok {
		return false
	}
	return t.Key == "" || t.Key == e.Key
}

func quoteAll(values []string) []string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return quoted
}
