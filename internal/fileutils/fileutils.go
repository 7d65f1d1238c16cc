package fileutils

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
)

// SameContents reports whether the files at a and b hold identical bytes.
// Both files must exist.
func SameContents(fs afero.Fs, a string, b string) (bool, error) {
	left, err := afero.ReadFile(fs, a)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", a, err)
	}
	right, err := afero.ReadFile(fs, b)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", b, err)
	}
	return bytes.Equal(left, right), nil
}
