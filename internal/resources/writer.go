// Package resources renders extracted strings into bundle resources: the
// tracked listing, the .strings table and the merged .stringsdict table.
package resources

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/extraction"
	"github.com/localizedstringkit/lsk/internal/fileutils"
	"github.com/localizedstringkit/lsk/internal/models"
	"github.com/localizedstringkit/lsk/internal/perf"
)

// FileWrite is one fully rendered output file.
type FileWrite struct {
	Path string
	Data []byte
}

type Writer struct {
	fs        afero.Fs
	generator TableGenerator
	log       Logger
}

func NewWriter(fs afero.Fs, generator TableGenerator, log Logger) *Writer {
	return &Writer{fs: fs, generator: generator, log: log}
}

// Write renders every output for result below root and only then touches the
// disk, so a conflict or generator failure leaves the tree unchanged.
func (w *Writer) Write(ctx context.Context, root string, result extraction.Result) error {
	plan, err := w.Plan(ctx, root, result)
	if err != nil {
		return err
	}
	return w.Commit(ctx, plan)
}

// Plan computes the full content of every file a write would produce.
func (w *Writer) Plan(ctx context.Context, root string, result extraction.Result) ([]FileWrite, error) {
	_, span := perf.StartSpan(ctx, perf.StagePrefix+"render", perf.WithAttributes(attribute.String("root", root)))
	defer span.End()

	plan := make([]FileWrite, 0)

	for _, bundle := range result.ListingBundles() {
		paths := models.NewBundlePaths(root, bundle)
		listing := RenderListing(result.Strings[bundle])

		table, err := w.generator.Generate(listing)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to generate strings table for %s: %w", paths.Bundle, err)
		}

		plan = append(plan,
			FileWrite{Path: paths.StringsPath(models.DefaultLanguage, models.DefaultTable), Data: table},
			FileWrite{Path: paths.ListingPath(), Data: listing},
		)
	}

	for _, bundle := range result.PluralBundles() {
		paths := models.NewBundlePaths(root, bundle)
		path := paths.StringsDictPath(models.DefaultLanguage, models.DefaultTable)

		data, err := w.renderStringsDict(path, result.Plurals[bundle])
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		plan = append(plan, FileWrite{Path: path, Data: data})
	}

	span.SetAttributes(attribute.Int("files", len(plan)))
	return plan, nil
}

func (w *Writer) renderStringsDict(path string, incoming []models.PluralEntry) ([]byte, error) {
	existing := make([]models.PluralEntry, 0)

	exists, err := afero.Exists(w.fs, path)
	if err != nil {
		return nil, err
	}
	if exists {
		w.log.Debug(fmt.Sprintf("Merging into existing %s", path))
		existing, err = LoadStringsDict(w.fs, path)
		if err != nil {
			return nil, err
		}
	}

	merged, err := MergePlurals(path, existing, incoming)
	if err != nil {
		return nil, err
	}
	return EncodeStringsDict(merged)
}

// Commit writes each planned file atomically, in order.
func (w *Writer) Commit(ctx context.Context, plan []FileWrite) error {
	_, span := perf.StartSpan(ctx, perf.StagePrefix+"write", perf.WithAttributes(attribute.Int("files", len(plan))))
	defer span.End()

	for _, file := range plan {
		w.log.Debug(fmt.Sprintf("Writing %s", file.Path))
		if err := fileutils.WriteFileAtomic(w.fs, file.Path, file.Data); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}
