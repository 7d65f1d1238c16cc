// Package sourcefiles lists the Swift and Objective-C files a run scans.
package sourcefiles

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var DefaultExtensions = []string{".swift", ".m"}

type Logger interface {
	Debug(message string)
}

type Options struct {
	Root string
	// Exclude and ExclusionFile are mutually exclusive.
	Exclude       []string
	ExclusionFile string
	Extensions    []string
}

// ErrConflictingExclusions is returned when both an exclusion list and an
// exclusion file are given.
var ErrConflictingExclusions = errors.New("either excluded folders or an exclusion file may be set, not both")

// Find walks opts.Root and returns every regular file with a matching
// extension that no exclusion covers, sorted lexically.
func Find(fs afero.Fs, log Logger, opts Options) ([]string, error) {
	if len(opts.Exclude) > 0 && opts.ExclusionFile != "" {
		return nil, ErrConflictingExclusions
	}

	entries := opts.Exclude
	if opts.ExclusionFile != "" {
		fromFile, err := ReadExclusionFile(fs, opts.ExclusionFile)
		if err != nil {
			return nil, err
		}
		entries = fromFile
	}
	exclusions := NewExclusions(opts.Root, entries)

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	log.Debug("Fetching localizable files")

	files := make([]string, 0)
	walkErr := afero.Walk(fs, opts.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != opts.Root && exclusions.IsExcluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || !hasExtension(path, extensions) {
			return nil
		}
		if exclusions.IsExcluded(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "failed to list source files in %s", opts.Root)
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	extension := filepath.Ext(path)
	for _, candidate := range extensions {
		if extension == candidate {
			return true
		}
	}
	return false
}
