package lsk

import (
	"context"
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/changes"
	"github.com/localizedstringkit/lsk/internal/detection"
	"github.com/localizedstringkit/lsk/internal/extraction"
	"github.com/localizedstringkit/lsk/internal/i18n"
	"github.com/localizedstringkit/lsk/internal/perf"
	"github.com/localizedstringkit/lsk/internal/resources"
	"github.com/localizedstringkit/lsk/internal/sourcefiles"
	"github.com/localizedstringkit/lsk/internal/tui"
)

func runGenerate(ctx context.Context, _ *cobra.Command, opts generateOptions, deps generateDeps) error {
	ctx, span := perf.StartSpan(ctx, perf.RunSpanName,
		perf.WithAttributes(
			attribute.String("root", opts.Path),
			attribute.String("localized_string_kit_path", opts.LocalizedStringKitPath),
			attribute.Bool("check", opts.Check),
			attribute.Bool("force", opts.Force),
		),
	)
	defer span.End()

	log := deps.logger

	// Rejected before any work so a bad value never leaves a partial tree.
	encoding, err := resources.ParseEncoding(opts.StringsEncoding)
	if err != nil {
		return err
	}

	files, err := findFiles(ctx, deps, opts)
	if err != nil {
		span.RecordError(err)
		return err
	}

	detector := detection.NewDetector(deps.fs, log)
	result, err := extraction.Extract(ctx, detector, log, files, extraction.Options{
		IncludePlural: opts.GenerateStringsdict,
		Strict:        opts.Strict,
	})
	if err != nil {
		span.RecordError(err)
		if reportInvalidCalls(deps, err) {
			return errInvalidCalls
		}
		return err
	}

	checker := changes.NewChecker(deps.fs, log)

	if opts.Check {
		changed, err := checker.Compare(ctx, opts.LocalizedStringKitPath, result, opts.GenerateStringsdict)
		if err != nil {
			return err
		}
		if changed {
			log.Log(tui.ErrorIcon(deps.colorize)+" "+i18n.T("cmd.root.changes_pending"), true)
			return errChangesPending
		}
		log.Log(tui.SuccessIcon(deps.colorize)+" "+i18n.T("cmd.root.no_changes"), false)
		return nil
	}

	if !opts.Force {
		changed, err := checker.Compare(ctx, opts.LocalizedStringKitPath, result, opts.GenerateStringsdict)
		if err != nil {
			return err
		}
		if !changed {
			log.Log(tui.SuccessIcon(deps.colorize)+" "+i18n.T("cmd.root.up_to_date"), false)
			return nil
		}
	}

	writer := resources.NewWriter(deps.fs, resources.NewStringsGenerator(encoding, log), log)
	if err := writer.Write(ctx, opts.LocalizedStringKitPath, result); err != nil {
		span.RecordError(err)
		return err
	}

	log.Log(tui.SuccessIcon(deps.colorize)+" "+i18n.T("cmd.root.generated", i18n.Tvars{
		Count: len(result.Bundles()),
		Data: &i18n.TData{
			"path": tui.Render(tui.PathStyle, opts.LocalizedStringKitPath, deps.colorize),
		},
	}), false)
	return nil
}

func findFiles(ctx context.Context, deps generateDeps, opts generateOptions) ([]string, error) {
	_, span := perf.StartSpan(ctx, perf.StagePrefix+"discover", perf.WithAttributes(attribute.String("root", opts.Path)))
	defer span.End()

	files, err := sourcefiles.Find(deps.fs, deps.logger, sourcefiles.Options{
		Root:          opts.Path,
		Exclude:       opts.Exclude,
		ExclusionFile: opts.ExclusionFile,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(files)))
	deps.logger.Debugf("Found %d source files", len(files))
	return files, nil
}

// reportInvalidCalls logs every offending call of every file in err. It
// returns false when err holds no invalid call.
func reportInvalidCalls(deps generateDeps, err error) bool {
	var errs []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	} else {
		errs = []error{err}
	}

	reported := false
	for _, candidate := range errs {
		var invalid *detection.InvalidLocalizedCallError
		if !errors.As(candidate, &invalid) {
			continue
		}
		reported = true
		deps.logger.Error(tui.ErrorIcon(deps.colorize) + " " + i18n.T("cmd.root.invalid_calls", i18n.Tvars{
			Count: len(invalid.Calls),
			Data:  &i18n.TData{"path": tui.Render(tui.PathStyle, invalid.Path, deps.colorize)},
		}))
		for _, call := range invalid.Calls {
			line := "    " + call
			if deps.colorize {
				line = tui.SnippetStyle.Render(call)
			}
			deps.logger.Error(line)
		}
	}
	return reported
}
