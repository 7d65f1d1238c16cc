package lsk

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/localizedstringkit/lsk/internal/config"
	"github.com/localizedstringkit/lsk/internal/environment"
	"github.com/localizedstringkit/lsk/internal/i18n"
)

type generateOptions struct {
	Path                   string
	LocalizedStringKitPath string
	Exclude                []string
	ExclusionFile          string
	Force                  bool
	Check                  bool
	GenerateStringsdict    bool
	Strict                 bool
	StringsEncoding        string
	Quiet                  bool
	Debug                  bool
}

var (
	errPathRequired                   = errors.New("a search path is required")
	errLocalizedStringKitPathRequired = errors.New("a LocalizedStringKit path is required")
)

// loadProject reads the project file named by --config. A missing file is only
// an error when --config was given explicitly.
func loadProject(ctx context.Context, fs afero.Fs, cmd *cobra.Command) (config.Project, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Project{}, err
	}

	project, err := config.ReadConfig(ctx, fs, config.NewMetadata(path))
	if err == nil {
		return project, nil
	}
	if errors.Is(err, &config.FileNotFoundError{}) && !cmd.Flags().Changed("config") {
		return config.Project{}, nil
	}
	return config.Project{}, err
}

// resolveOptions layers explicitly set flags over the project file, and the
// environment under both for the LocalizedStringKit path.
func resolveOptions(cmd *cobra.Command, project config.Project) (generateOptions, error) {
	flags := cmd.Flags()
	opts := generateOptions{
		Path:                   project.Path,
		LocalizedStringKitPath: project.LocalizedStringKitPath,
		Exclude:                project.Exclude,
		ExclusionFile:          project.ExclusionFile,
		GenerateStringsdict:    project.GenerateStringsdict,
		Strict:                 project.Strict,
		StringsEncoding:        project.StringsEncoding,
	}

	var err error
	stringFlags := map[string]*string{
		"path":                      &opts.Path,
		"localized-string-kit-path": &opts.LocalizedStringKitPath,
		"exclusion-file":            &opts.ExclusionFile,
		"strings-encoding":          &opts.StringsEncoding,
	}
	for name, target := range stringFlags {
		if flags.Changed(name) || *target == "" {
			if *target, err = flags.GetString(name); err != nil {
				return generateOptions{}, err
			}
		}
	}

	if flags.Changed("exclude") {
		if opts.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return generateOptions{}, err
		}
		if !flags.Changed("exclusion-file") {
			opts.ExclusionFile = ""
		}
	} else if flags.Changed("exclusion-file") {
		opts.Exclude = nil
	}

	boolFlags := map[string]*bool{
		"force":                      &opts.Force,
		"check":                      &opts.Check,
		"generate-stringsdict-files": &opts.GenerateStringsdict,
		"strict":                     &opts.Strict,
		"quiet":                      &opts.Quiet,
		"debug":                      &opts.Debug,
	}
	for name, target := range boolFlags {
		if flags.Changed(name) || !*target {
			if *target, err = flags.GetBool(name); err != nil {
				return generateOptions{}, err
			}
		}
	}

	if opts.Path == "" {
		return generateOptions{}, fmt.Errorf("%w: %s", errPathRequired, i18n.T("cmd.root.error.path_required"))
	}

	if opts.LocalizedStringKitPath == "" {
		path, ok := environment.LocalizedStringKitPath()
		if !ok {
			return generateOptions{}, fmt.Errorf("%w: %s", errLocalizedStringKitPathRequired, i18n.T("cmd.root.error.lsk_path_required", i18n.Tvars{
				Data: &i18n.TData{"variable": environment.LocalizedStringKitPathVariable},
			}))
		}
		opts.LocalizedStringKitPath = path
	}

	return opts, nil
}
