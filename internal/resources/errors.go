package resources

import "fmt"

const (
	ConflictValue     = "value"
	ConflictVariables = "variables"
)

// MergeConflictError means an existing plural entry disagrees with the
// extracted one on its value or on its set of variable names.
type MergeConflictError struct {
	Path  string
	Key   string
	Field string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%s names are inconsistent for key %s in %s", e.Field, e.Key, e.Path)
}

func (e *MergeConflictError) Is(target error) bool {
	t, ok := target.(*MergeConflictError)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown strings encoding %q, expected utf-8 or utf-16", e.Name)
}
