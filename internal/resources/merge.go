package resources

import (
	"sort"

	"github.com/localizedstringkit/lsk/internal/models"
)

// MergePlurals combines freshly extracted entries with those already on disk.
// The result holds exactly the incoming keys, sorted. Existing entries must
// agree on value and variable names; their rule content is carried over.
func MergePlurals(path string, existing []models.PluralEntry, incoming []models.PluralEntry) ([]models.PluralEntry, error) {
	byKey := make(map[string]models.PluralEntry, len(existing))
	for _, entry := range existing {
		byKey[entry.Key] = entry
	}

	merged := make([]models.PluralEntry, 0, len(incoming))
	for _, entry := range incoming {
		previous, ok := byKey[entry.Key]
		if !ok {
			merged = append(merged, entry)
			continue
		}

		if previous.Value != entry.Value {
			return nil, &MergeConflictError{Path: path, Key: entry.Key, Field: ConflictValue}
		}
		if !equalNames(previous.SortedVariableNames(), entry.SortedVariableNames()) {
			return nil, &MergeConflictError{Path: path, Key: entry.Key, Field: ConflictVariables}
		}
		merged = append(merged, entry.Merge(previous))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Key < merged[j].Key
	})
	return merged, nil
}

// PluralSignature reduces entries to sorted (key, sorted variable names) pairs.
func PluralSignature(entries []models.PluralEntry) []KeyVariables {
	signature := make([]KeyVariables, 0, len(entries))
	for _, entry := range entries {
		signature = append(signature, KeyVariables{Key: entry.Key, Variables: entry.SortedVariableNames()})
	}
	sort.SliceStable(signature, func(i, j int) bool {
		return signature[i].Key < signature[j].Key
	})
	return signature
}

type KeyVariables struct {
	Key       string
	Variables []string
}

func SameSignature(a []KeyVariables, b []KeyVariables) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !equalNames(a[i].Variables, b[i].Variables) {
			return false
		}
	}
	return true
}

func equalNames(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
