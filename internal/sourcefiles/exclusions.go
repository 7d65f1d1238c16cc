package sourcefiles

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ReadExclusionFile returns one exclusion per non-blank line, trimmed.
func ReadExclusionFile(fs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read exclusion file %s", path)
	}
	return parseLines(string(data)), nil
}

func parseLines(contents string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Exclusions decides whether a discovered file is skipped. Plain entries
// exclude a folder (or file) and everything below it; entries containing glob
// characters are matched against the path relative to root, with ** spanning
// any number of folders.
type Exclusions struct {
	root     string
	prefixes []string
	globs    []string
}

func NewExclusions(root string, entries []string) Exclusions {
	exclusions := Exclusions{root: filepath.Clean(root)}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if isGlob(entry) {
			exclusions.globs = append(exclusions.globs, filepath.ToSlash(entry))
			continue
		}
		exclusions.prefixes = append(exclusions.prefixes, filepath.Join(exclusions.root, filepath.FromSlash(entry)))
	}
	return exclusions
}

func (e Exclusions) IsExcluded(path string) bool {
	cleanPath := filepath.Clean(path)

	for _, prefix := range e.prefixes {
		if cleanPath == prefix || strings.HasPrefix(cleanPath, prefix+string(filepath.Separator)) {
			return true
		}
	}

	if len(e.globs) == 0 {
		return false
	}

	rel, ok := e.relative(cleanPath)
	if !ok {
		return false
	}
	for _, pattern := range e.globs {
		if globMatch(pattern, rel) || globMatchesParent(pattern, rel) {
			return true
		}
	}
	return false
}

func (e Exclusions) relative(cleanPath string) (string, bool) {
	if cleanPath != e.root && !strings.HasPrefix(cleanPath, e.root+string(filepath.Separator)) {
		return "", false
	}
	rel := strings.TrimPrefix(cleanPath, e.root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	return filepath.ToSlash(rel), true
}

// globMatchesParent lets a folder glob such as "Pods/*" exclude files nested
// deeper inside the matched folders.
func globMatchesParent(pattern string, rel string) bool {
	parts := strings.Split(rel, "/")
	for i := len(parts) - 1; i > 0; i-- {
		if globMatch(pattern, strings.Join(parts[:i], "/")) {
			return true
		}
	}
	return false
}

func isGlob(entry string) bool {
	return strings.ContainsAny(entry, "*?[")
}

func globMatch(pattern string, target string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	target = strings.TrimPrefix(target, "./")

	patternParts := strings.Split(pattern, "/")
	targetParts := strings.Split(target, "/")

	var match func(pi, ti int) bool
	match = func(pi, ti int) bool {
		if pi == len(patternParts) {
			return ti == len(targetParts)
		}

		part := patternParts[pi]
		if part == "**" {
			for skip := ti; skip <= len(targetParts); skip++ {
				if match(pi+1, skip) {
					return true
				}
			}
			return false
		}

		if ti >= len(targetParts) {
			return false
		}

		ok, err := filepath.Match(part, targetParts[ti])
		if err != nil || !ok {
			return false
		}
		return match(pi+1, ti+1)
	}

	return match(0, 0)
}
