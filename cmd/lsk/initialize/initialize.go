// Package initialize implements `lsk init`, which writes a project file with
// generator defaults.
package initialize

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/config"
	"github.com/localizedstringkit/lsk/internal/i18n"
	"github.com/localizedstringkit/lsk/internal/logger"
	"github.com/localizedstringkit/lsk/internal/perf"
	"github.com/localizedstringkit/lsk/internal/resources"
	"github.com/localizedstringkit/lsk/internal/tui"
)

type initOptions struct {
	ConfigPath string
	Overwrite  bool
	Project    config.Project
}

type initDeps struct {
	fs       afero.Fs
	logger   *logger.Logger
	colorize bool
}

// ConfigExistsError refuses to replace a project file without --overwrite.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("configuration file %s already exists", e.Path)
}

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: i18n.T("cmd.init.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.init")
			defer func() {
				span.SetAttributes(attribute.Bool("success", err == nil))
				span.End()
			}()

			flags := cmd.Flags()
			configPath, err := flags.GetString("config")
			if err != nil {
				return err
			}
			quiet, err := flags.GetBool("quiet")
			if err != nil {
				return err
			}
			debug, err := flags.GetBool("debug")
			if err != nil {
				return err
			}

			opts := initOptions{ConfigPath: configPath}
			if opts.Overwrite, err = flags.GetBool("overwrite"); err != nil {
				return err
			}
			if opts.Project.Path, err = flags.GetString("path"); err != nil {
				return err
			}
			if opts.Project.LocalizedStringKitPath, err = flags.GetString("localized-string-kit-path"); err != nil {
				return err
			}
			if opts.Project.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
				return err
			}
			if opts.Project.ExclusionFile, err = flags.GetString("exclusion-file"); err != nil {
				return err
			}
			if opts.Project.GenerateStringsdict, err = flags.GetBool("generate-stringsdict-files"); err != nil {
				return err
			}
			if opts.Project.Strict, err = flags.GetBool("strict"); err != nil {
				return err
			}
			if opts.Project.StringsEncoding, err = flags.GetString("strings-encoding"); err != nil {
				return err
			}

			deps := initDeps{
				fs:       afero.NewOsFs(),
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), quiet, debug),
				colorize: tui.IsTerminalWriter(cmd.OutOrStdout()),
			}

			if err := initWithDeps(ctx, opts, deps); err != nil {
				cmd.SilenceUsage = true
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Bool("overwrite", false, i18n.T("cmd.init.flag.overwrite"))
	flags.StringP("path", "p", ".", i18n.T("cmd.root.flag.path"))
	flags.StringP("localized-string-kit-path", "l", "", i18n.T("cmd.init.flag.localized_string_kit_path"))
	flags.StringSlice("exclude", nil, i18n.T("cmd.root.flag.exclude"))
	flags.String("exclusion-file", "", i18n.T("cmd.root.flag.exclusion_file"))
	flags.BoolP("generate-stringsdict-files", "g", false, i18n.T("cmd.root.flag.generate_stringsdict"))
	flags.Bool("strict", false, i18n.T("cmd.root.flag.strict"))
	flags.String("strings-encoding", "", i18n.T("cmd.root.flag.strings_encoding"))
	cmd.MarkFlagsMutuallyExclusive("exclude", "exclusion-file")

	return cmd
}

func initWithDeps(ctx context.Context, opts initOptions, deps initDeps) error {
	if opts.Project.StringsEncoding != "" {
		if _, err := resources.ParseEncoding(opts.Project.StringsEncoding); err != nil {
			return err
		}
	}

	exists, err := afero.Exists(deps.fs, opts.ConfigPath)
	if err != nil {
		return err
	}
	if exists && !opts.Overwrite {
		deps.logger.Error(tui.ErrorIcon(deps.colorize) + " " + i18n.T("cmd.init.error.exists", i18n.Tvars{
			Data: &i18n.TData{"path": opts.ConfigPath},
		}))
		return &ConfigExistsError{Path: opts.ConfigPath}
	}

	if err := config.WriteConfig(ctx, deps.fs, config.NewMetadata(opts.ConfigPath), opts.Project); err != nil {
		return err
	}

	deps.logger.Log(tui.SuccessIcon(deps.colorize)+" "+i18n.T("cmd.init.created", i18n.Tvars{
		Data: &i18n.TData{"path": tui.Render(tui.PathStyle, opts.ConfigPath, deps.colorize)},
	}), false)
	return nil
}
