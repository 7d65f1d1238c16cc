// Package detection finds Localized() call sites in source files by pattern
// matching over the raw text. It has no lexer: each dialect contributes a set
// of call patterns and a table describing what every capture group holds.
package detection

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/localizedstringkit/lsk/internal/models"
)

// Dialect extracts localized strings from the text of one kind of source file.
type Dialect interface {
	Name() string
	Extensions() []string
	FindStrings(path string, contents string) ([]models.LocalizedString, error)
}

type Logger interface {
	Debug(message string)
}

type Detector struct {
	fs       afero.Fs
	log      Logger
	dialects map[string]Dialect
}

// NewDetector returns a detector for the given dialects, or for Swift and
// Objective-C when none are given.
func NewDetector(fs afero.Fs, log Logger, dialects ...Dialect) *Detector {
	if len(dialects) == 0 {
		dialects = []Dialect{Swift, ObjectiveC}
	}

	byExtension := make(map[string]Dialect)
	for _, dialect := range dialects {
		for _, extension := range dialect.Extensions() {
			byExtension[extension] = dialect
		}
	}

	return &Detector{fs: fs, log: log, dialects: byExtension}
}

func (d *Detector) DialectFor(path string) (Dialect, error) {
	extension := filepath.Ext(path)
	dialect, ok := d.dialects[extension]
	if !ok {
		return nil, &UnsupportedFileTypeError{Path: path, Extension: extension}
	}
	return dialect, nil
}

// StringsInFile returns the localized strings of one file in pattern order.
func (d *Detector) StringsInFile(path string) ([]models.LocalizedString, error) {
	d.log.Debug(fmt.Sprintf("Finding localized strings in file: %s", path))

	dialect, err := d.DialectFor(path)
	if err != nil {
		return nil, err
	}

	contents, err := afero.ReadFile(d.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return dialect.FindStrings(path, string(contents))
}

// Escaped quotes would end a quoted capture early, so they are swapped for
// private-use runes before matching. Escaped backslashes go first so that
// `\\"` still closes a literal.
const (
	escapedBackslash         = `\\`
	escapedQuote             = `\"`
	escapedBackslashSentinel = "\uE001"
	escapedQuoteSentinel     = "\uE000"
)

var sanitizer = strings.NewReplacer(escapedBackslash, escapedBackslashSentinel, escapedQuote, escapedQuoteSentinel)

var restorer = strings.NewReplacer(escapedBackslashSentinel, escapedBackslash, escapedQuoteSentinel, escapedQuote)

func sanitize(contents string) string {
	return sanitizer.Replace(contents)
}

func restore(field string) string {
	return restorer.Replace(field)
}

// invalidCallPattern matches Localized and LocalizedWithKeyExtension calls
// whose first argument does not open a string literal.
var invalidCallPattern = regexp.MustCompile(`(.*Localized(?:WithKeyExtension)?\(\s*[^"@\s].*)`)

type field int

const (
	valueField field = iota
	commentField
	keyExtensionField
	bundleField
)

type argument struct {
	expr     string
	field    field
	captures bool
}

type callPattern struct {
	function string
	re       *regexp.Regexp
	fields   []field
}

func newCallPattern(function string, args ...argument) callPattern {
	exprs := make([]string, 0, len(args))
	fields := make([]field, 0, len(args))
	for _, arg := range args {
		exprs = append(exprs, arg.expr)
		if arg.captures {
			fields = append(fields, arg.field)
		}
	}

	re := regexp.MustCompile(regexp.QuoteMeta(function) + `\(\s*` + strings.Join(exprs, `\s*,\s*`) + `\s*\)`)
	if re.NumSubexp() != len(fields) {
		panic(fmt.Sprintf("call pattern %s declares %d fields but has %d groups", re, len(fields), re.NumSubexp()))
	}

	return callPattern{function: function, re: re, fields: fields}
}

func (p callPattern) build(captured []string) models.LocalizedString {
	var value, comment, keyExtension, bundle string
	for i, f := range p.fields {
		text := restore(captured[i])
		switch f {
		case valueField:
			value = text
		case commentField:
			comment = text
		case keyExtensionField:
			keyExtension = text
		case bundleField:
			bundle = text
		}
	}
	return models.NewLocalizedString(value, comment, keyExtension, bundle)
}

// patternDialect is a Dialect driven entirely by regular expressions.
type patternDialect struct {
	name         string
	extensions   []string
	calls        []callPattern
	declarations *regexp.Regexp
}

func (d patternDialect) Name() string {
	return d.name
}

func (d patternDialect) Extensions() []string {
	return d.extensions
}

func (d patternDialect) FindStrings(path string, contents string) ([]models.LocalizedString, error) {
	sanitized := sanitize(contents)

	if err := d.confirmStringArgsOnly(path, sanitized); err != nil {
		return nil, err
	}

	results := make([]models.LocalizedString, 0)
	for _, call := range d.calls {
		for _, match := range call.re.FindAllStringSubmatch(sanitized, -1) {
			captured := match[1:]
			if len(captured) != len(call.fields) {
				return nil, &CaptureGroupMismatchError{Pattern: call.re.String(), Expected: len(call.fields), Actual: len(captured)}
			}
			results = append(results, call.build(captured))
		}
	}

	return results, nil
}

// confirmStringArgsOnly rejects calls such as
// `Localized(String(format: "%@ years", age), "Comment")`, which must be written
// as `String(format: Localized("%@ years", "Comment"), age)` instead.
func (d patternDialect) confirmStringArgsOnly(path string, sanitized string) error {
	var invalid []string
	for _, match := range invalidCallPattern.FindAllStringSubmatch(sanitized, -1) {
		line := strings.TrimSpace(match[1])
		if d.declarations != nil && d.declarations.MatchString(line) {
			continue
		}
		invalid = append(invalid, restore(line))
	}

	if len(invalid) > 0 {
		return &InvalidLocalizedCallError{Path: path, Calls: invalid}
	}
	return nil
}
