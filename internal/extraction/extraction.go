// Package extraction runs detection over a file list and turns the raw call
// sites into deduplicated, sorted, per-bundle tables.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/detection"
	"github.com/localizedstringkit/lsk/internal/models"
	"github.com/localizedstringkit/lsk/internal/perf"
)

type Detector interface {
	StringsInFile(path string) ([]models.LocalizedString, error)
}

type Logger interface {
	Debug(message string)
	Warn(message string)
}

type Options struct {
	// IncludePlural routes strings containing %#@name@ variables to the plural table.
	IncludePlural bool
	// Strict turns comment conflicts on a shared key into a KeyConflictError.
	Strict bool
}

// Result holds both partitions keyed by bundle directory name. Entries within
// a bundle keep the global (key, key extension, comment) order.
type Result struct {
	Strings map[string][]models.LocalizedString
	Plurals map[string][]models.PluralEntry
}

func newResult() Result {
	return Result{
		Strings: make(map[string][]models.LocalizedString),
		Plurals: make(map[string][]models.PluralEntry),
	}
}

// Bundles lists every bundle with at least one entry in either partition.
func (r Result) Bundles() []string {
	seen := make(map[string]struct{}, len(r.Strings)+len(r.Plurals))
	for bundle := range r.Strings {
		seen[bundle] = struct{}{}
	}
	for bundle := range r.Plurals {
		seen[bundle] = struct{}{}
	}
	return sortedKeys(seen)
}

func (r Result) StringBundles() []string {
	return sortedKeys(r.Strings)
}

// ListingBundles is StringBundles, except that a result with no entries at all
// still yields the default bundle so an empty run has a listing baseline.
func (r Result) ListingBundles() []string {
	if len(r.Strings) == 0 && len(r.Plurals) == 0 {
		return []string{models.DefaultBundle}
	}
	return r.StringBundles()
}

func (r Result) PluralBundles() []string {
	return sortedKeys(r.Plurals)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Extract detects strings in files, in the order given. Invalid calls are
// collected across all files and returned together; any other error stops at
// the file that caused it.
func Extract(ctx context.Context, detector Detector, log Logger, files []string, opts Options) (Result, error) {
	ctx, span := perf.StartSpan(ctx, perf.StagePrefix+"extract",
		perf.WithAttributes(
			attribute.Int("files", len(files)),
			attribute.Bool("include_plural", opts.IncludePlural),
		),
	)
	defer span.End()

	found, err := detectAll(ctx, detector, files)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	unique := models.Dedupe(found)
	models.SortStrings(unique)
	log.Debug(fmt.Sprintf("Found %d unique localized strings", len(unique)))

	if err := checkKeyConflicts(unique, log, opts.Strict); err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	result := partition(unique, opts.IncludePlural)
	span.SetAttributes(
		attribute.Int("strings", len(unique)),
		attribute.Int("bundles", len(result.Bundles())),
	)
	return result, nil
}

func detectAll(ctx context.Context, detector Detector, files []string) ([]models.LocalizedString, error) {
	var invalid *multierror.Error
	found := make([]models.LocalizedString, 0)

	for _, path := range files {
		_, fileSpan := perf.StartSpan(ctx, "lsk.detect.file", perf.WithAttributes(attribute.String("file_path", path)))
		strings, err := detector.StringsInFile(path)
		fileSpan.RecordError(err)
		fileSpan.End()

		if err != nil {
			var callErr *detection.InvalidLocalizedCallError
			if errors.As(err, &callErr) {
				invalid = multierror.Append(invalid, err)
				continue
			}
			return nil, err
		}
		found = append(found, strings...)
	}

	if err := invalid.ErrorOrNil(); err != nil {
		return nil, err
	}
	return found, nil
}

func partition(strings []models.LocalizedString, includePlural bool) Result {
	result := newResult()
	pluralKeys := make(map[string]map[string]struct{})

	for _, s := range strings {
		bundle := models.BundleDirName(s.Bundle)

		names := models.PluralVariableNames(s.Value)
		if !includePlural || len(names) == 0 {
			result.Strings[bundle] = append(result.Strings[bundle], s)
			continue
		}

		if pluralKeys[bundle] == nil {
			pluralKeys[bundle] = make(map[string]struct{})
		}
		// Entries sharing a key differ only by comment, which a plural table does not store.
		if _, ok := pluralKeys[bundle][s.Key]; ok {
			continue
		}
		pluralKeys[bundle][s.Key] = struct{}{}
		result.Plurals[bundle] = append(result.Plurals[bundle], models.NewPluralEntry(s.Key, models.Unescape(s.Value), names))
	}

	return result
}

// checkKeyConflicts expects strings sorted by key.
func checkKeyConflicts(strings []models.LocalizedString, log Logger, strict bool) error {
	type bundleKey struct{ bundle, key string }

	comments := make(map[bundleKey][]string)
	values := make(map[bundleKey]string)
	order := make([]bundleKey, 0)

	for _, s := range strings {
		id := bundleKey{models.BundleDirName(s.Bundle), s.Key}
		if _, ok := comments[id]; !ok {
			order = append(order, id)
			values[id] = s.Value
		}
		if !contains(comments[id], s.Comment) {
			comments[id] = append(comments[id], s.Comment)
		}
	}

	for _, id := range order {
		if len(comments[id]) < 2 {
			continue
		}
		conflict := &KeyConflictError{Bundle: id.bundle, Key: id.key, Value: values[id], Comments: comments[id]}
		if strict {
			return conflict
		}
		log.Warn(conflict.Error())
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
