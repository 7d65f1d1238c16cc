// Package changes decides whether the persisted resource tree is stale with
// respect to the current source files, without writing to it.
package changes

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/extraction"
	"github.com/localizedstringkit/lsk/internal/fileutils"
	"github.com/localizedstringkit/lsk/internal/models"
	"github.com/localizedstringkit/lsk/internal/perf"
	"github.com/localizedstringkit/lsk/internal/resources"
)

type Logger interface {
	Debug(message string)
	Warn(message string)
}

type Checker struct {
	fs afero.Fs
	// ScratchDir receives temporary listings. Empty means the system default.
	ScratchDir string
	log        Logger
}

func NewChecker(fs afero.Fs, log Logger) *Checker {
	return &Checker{fs: fs, log: log}
}

// HasChanges extracts files and reports whether root is out of date.
func (c *Checker) HasChanges(ctx context.Context, detector extraction.Detector, root string, files []string, includePlural bool) (bool, error) {
	result, err := extraction.Extract(ctx, detector, c.log, files, extraction.Options{IncludePlural: includePlural})
	if err != nil {
		return false, err
	}
	return c.Compare(ctx, root, result, includePlural)
}

// Compare reports whether an already extracted result differs from what is
// persisted below root. Listings are compared byte for byte; stringsdict files
// only by their keys and variable names. The first difference wins.
func (c *Checker) Compare(ctx context.Context, root string, result extraction.Result, includePlural bool) (bool, error) {
	_, span := perf.StartSpan(ctx, perf.StagePrefix+"compare", perf.WithAttributes(attribute.String("root", root)))
	defer span.End()

	changed, err := c.compareListings(root, result)
	if err != nil || changed {
		recordOutcome(span, changed, err)
		return changed, err
	}

	if includePlural {
		changed, err = c.comparePlurals(root, result)
	}
	recordOutcome(span, changed, err)
	return changed, err
}

func recordOutcome(span *perf.Span, changed bool, err error) {
	if err != nil {
		span.RecordError(err)
		return
	}
	span.SetAttributes(attribute.Bool("changed", changed))
}

func (c *Checker) compareListings(root string, result extraction.Result) (bool, error) {
	for _, bundle := range result.ListingBundles() {
		persisted := models.NewBundlePaths(root, bundle).ListingPath()

		exists, err := afero.Exists(c.fs, persisted)
		if err != nil {
			return false, errors.Wrapf(err, "failed to stat %s", persisted)
		}
		if !exists {
			c.log.Debug(fmt.Sprintf("Listing %s does not exist", persisted))
			return true, nil
		}

		same, err := c.sameAsScratch(persisted, resources.RenderListing(result.Strings[bundle]))
		if err != nil {
			return false, err
		}
		if !same {
			c.log.Debug(fmt.Sprintf("Listing %s is out of date", persisted))
			return true, nil
		}
	}
	return false, nil
}

// sameAsScratch writes listing to a unique scratch file and compares it with
// persisted. The scratch file is removed on every path.
func (c *Checker) sameAsScratch(persisted string, listing []byte) (same bool, err error) {
	scratch, err := afero.TempFile(c.fs, c.ScratchDir, "lsk-*.m")
	if err != nil {
		return false, errors.Wrap(err, "failed to create scratch listing")
	}
	scratchPath := scratch.Name()
	defer func() {
		if removeErr := fileutils.RemoveIfExists(c.fs, scratchPath); removeErr != nil && err == nil {
			err = errors.Wrapf(removeErr, "failed to remove scratch listing %s", scratchPath)
		}
	}()

	_, writeErr := scratch.Write(listing)
	closeErr := scratch.Close()
	if writeErr != nil {
		return false, errors.Wrapf(writeErr, "failed to write scratch listing %s", scratchPath)
	}
	if closeErr != nil {
		return false, errors.Wrapf(closeErr, "failed to write scratch listing %s", scratchPath)
	}

	return fileutils.SameContents(c.fs, scratchPath, persisted)
}

func (c *Checker) comparePlurals(root string, result extraction.Result) (bool, error) {
	for _, bundle := range result.PluralBundles() {
		path := models.NewBundlePaths(root, bundle).StringsDictPath(models.DefaultLanguage, models.DefaultTable)

		exists, err := afero.Exists(c.fs, path)
		if err != nil {
			return false, errors.Wrapf(err, "failed to stat %s", path)
		}
		if !exists {
			c.log.Debug(fmt.Sprintf("Stringsdict %s does not exist", path))
			return true, nil
		}

		persisted, err := resources.LoadStringsDict(c.fs, path)
		if err != nil {
			return false, err
		}
		if !resources.SameSignature(resources.PluralSignature(persisted), resources.PluralSignature(result.Plurals[bundle])) {
			c.log.Debug(fmt.Sprintf("Stringsdict %s is out of date", path))
			return true, nil
		}
	}
	return false, nil
}
