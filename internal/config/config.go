// Package config reads and writes the optional .lsk.json project file that
// supplies defaults for command-line flags.
package config

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/internal/fileutils"
	"github.com/localizedstringkit/lsk/internal/perf"
)

const DefaultFileName = ".lsk.json"

// Project mirrors the generator flags. Relative paths are resolved against
// the directory holding the file.
type Project struct {
	Path                   string   `json:"path,omitempty"`
	LocalizedStringKitPath string   `json:"localizedStringKitPath,omitempty"`
	Exclude                []string `json:"exclude,omitempty"`
	ExclusionFile          string   `json:"exclusionFile,omitempty"`
	GenerateStringsdict    bool     `json:"generateStringsdictFiles,omitempty"`
	StringsEncoding        string   `json:"stringsEncoding,omitempty"`
	Strict                 bool     `json:"strict,omitempty"`
}

func ReadConfig(ctx context.Context, fs afero.Fs, meta Metadata) (Project, error) {
	_, span := perf.StartSpan(ctx, "io.config.read", perf.WithAttributes(attribute.String("config_path", meta.ConfigPath)))
	defer span.End()

	exists, err := afero.Exists(fs, meta.ConfigPath)
	if err != nil {
		return Project{}, errors.Wrap(err, "failed to stat configuration file")
	}
	if !exists {
		return Project{}, &FileNotFoundError{Path: meta.ConfigPath}
	}

	data, err := afero.ReadFile(fs, meta.ConfigPath)
	if err != nil {
		return Project{}, errors.Wrap(err, "failed to read configuration file")
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return Project{}, &FileInvalidError{Path: meta.ConfigPath, Err: err}
	}

	return meta.resolve(project), nil
}

// WriteConfig stores project as indented JSON. Paths are written as given.
func WriteConfig(ctx context.Context, fs afero.Fs, meta Metadata, project Project) error {
	_, span := perf.StartSpan(ctx, "io.config.write", perf.WithAttributes(attribute.String("config_path", meta.ConfigPath)))
	defer span.End()

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}
	return fileutils.WriteFileAtomic(fs, meta.ConfigPath, append(data, '\n'))
}
