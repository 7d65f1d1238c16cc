package lsk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	initCmd "github.com/localizedstringkit/lsk/cmd/lsk/initialize"
	"github.com/localizedstringkit/lsk/cmd/lsk/version"
	"github.com/localizedstringkit/lsk/internal/config"
	"github.com/localizedstringkit/lsk/internal/constants"
	"github.com/localizedstringkit/lsk/internal/environment"
	"github.com/localizedstringkit/lsk/internal/i18n"
	"github.com/localizedstringkit/lsk/internal/logger"
	"github.com/localizedstringkit/lsk/internal/perf"
	"github.com/localizedstringkit/lsk/internal/tui"
)

type generateDeps struct {
	fs       afero.Fs
	logger   *logger.Logger
	colorize bool
}

type generateRunner func(context.Context, *cobra.Command, generateOptions, generateDeps) error

func Command() *cobra.Command {
	return commandWithRunner(runGenerate)
}

func commandWithRunner(runner generateRunner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     constants.CommandName,
		Short:   i18n.T("app.description"),
		Version: environment.AppVersion(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.generate")
			defer span.End()

			fs := afero.NewOsFs()
			project, err := loadProject(ctx, fs, cmd)
			if err != nil {
				span.RecordError(err)
				return err
			}
			opts, err := resolveOptions(cmd, project)
			if err != nil {
				span.RecordError(err)
				return err
			}

			deps := generateDeps{
				fs:       fs,
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Quiet, opts.Debug),
				colorize: tui.IsTerminalWriter(cmd.OutOrStdout()),
			}

			err = runner(ctx, cmd, opts, deps)
			span.SetAttributes(attribute.Bool("success", err == nil))
			if err != nil {
				cmd.SilenceUsage = true
				var exitErr *exitCodeError
				if errors.As(err, &exitErr) {
					// already reported through the logger
					cmd.SilenceErrors = true
				}
			}
			return err
		},
	}
	cobra.MousetrapHelpText = "" // allow the app to run in windows by clicking the exe

	registerFlags(rootCmd)

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + "\n" + environment.HelpURL() + "\n")
	rootCmd.AddCommand(initCmd.Command())
	rootCmd.AddCommand(version.Command())

	translateDefaultHelpFacilities(rootCmd)
	fixFlagUsageAlignment(rootCmd)

	return rootCmd
}

func registerFlags(rootCmd *cobra.Command) {
	persistent := rootCmd.PersistentFlags()
	persistent.String("config", config.DefaultFileName, i18n.T("cmd.root.flag.config"))
	persistent.BoolP("quiet", "q", false, i18n.T("cmd.root.flag.quiet"))
	persistent.BoolP("debug", "d", false, i18n.T("cmd.root.flag.debug"))
	persistent.Bool("perf", false, i18n.T("cmd.root.flag.perf"))
	persistent.String("perf-out-dir", "", i18n.T("cmd.root.flag.perf_out_dir"))

	flags := rootCmd.Flags()
	flags.StringP("path", "p", "", i18n.T("cmd.root.flag.path"))
	flags.StringP("localized-string-kit-path", "l", "", i18n.T("cmd.root.flag.localized_string_kit_path", i18n.Tvars{
		Data: &i18n.TData{"variable": environment.LocalizedStringKitPathVariable},
	}))
	flags.StringSlice("exclude", nil, i18n.T("cmd.root.flag.exclude"))
	flags.String("exclusion-file", "", i18n.T("cmd.root.flag.exclusion_file"))
	flags.BoolP("force", "f", false, i18n.T("cmd.root.flag.force"))
	flags.BoolP("check", "c", false, i18n.T("cmd.root.flag.check"))
	flags.BoolP("generate-stringsdict-files", "g", false, i18n.T("cmd.root.flag.generate_stringsdict"))
	flags.Bool("strict", false, i18n.T("cmd.root.flag.strict"))
	flags.String("strings-encoding", "utf-8", i18n.T("cmd.root.flag.strings_encoding"))

	rootCmd.MarkFlagsMutuallyExclusive("exclude", "exclusion-file")
	rootCmd.MarkFlagsMutuallyExclusive("check", "force")
}

func translateDefaultHelpFacilities(rootCmd *cobra.Command) {
	subcommands := rootCmd.Commands()
	allCommands := make([]*cobra.Command, 0, len(subcommands)+1)
	allCommands = append(allCommands, rootCmd)
	allCommands = append(allCommands, subcommands...)

	for _, cmd := range allCommands {
		cmd.InitDefaultHelpFlag()
		flags := cmd.Flags()
		flags.Lookup("help").Usage = i18n.T("cmd.help.template", i18n.Tvars{
			Data: &i18n.TData{"command": cmd.Name()},
		})
	}

	rootCmd.InitDefaultHelpCmd()
	helpCmd, _, e := rootCmd.Find([]string{"help"})

	if e == nil {
		helpCmd.Short = i18n.T("cmd.help.usage.short")
		helpCmd.Long = i18n.T("cmd.help.usage.long", i18n.Tvars{
			Data: &i18n.TData{"appName": rootCmd.Name()},
		})
		helpCmd.Run = func(c *cobra.Command, args []string) {
			cmd, _, e := c.Root().Find(args)
			if cmd == nil || e != nil || (cmd == c.Root() && len(args) > 0) {
				c.PrintErrln(i18n.T("cmd.help.error", i18n.Tvars{
					Data: &i18n.TData{"topic": fmt.Sprintf("%#q", args)},
				}) + "\n")
				cobra.CheckErr(c.Root().Usage())
			} else {
				cmd.InitDefaultHelpFlag()    // make possible 'help' flag to be shown
				cmd.InitDefaultVersionFlag() // make possible 'version' flag to be shown
				cobra.CheckErr(cmd.Help())
			}
		}
	}
}

func fixFlagUsageAlignment(rootCmd *cobra.Command) {
	width := tui.Width(os.Stdout)
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.ReplaceAll(usageTemplate, ".FlagUsages", fmt.Sprintf(".FlagUsagesWrapped %d", width))
	rootCmd.SetUsageTemplate(usageTemplate)
}

func Execute() error {
	return ExecuteContext(context.Background())
}

func ExecuteContext(ctx context.Context) error {
	return Command().ExecuteContext(ctx)
}
