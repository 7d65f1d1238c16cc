package config

import (
	"path/filepath"
	"strings"
)

type Metadata struct {
	ConfigPath string
}

func NewMetadata(configPath string) Metadata {
	return Metadata{ConfigPath: configPath}
}

func (m Metadata) Dir() string {
	return filepath.Dir(filepath.FromSlash(m.ConfigPath))
}

// ResolvePath anchors a relative path at the config directory. Empty stays empty.
func (m Metadata) ResolvePath(path string) string {
	if path == "" || isAbsoluteOrRootedPath(path) {
		return path
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(path))
}

func (m Metadata) resolve(project Project) Project {
	project.Path = m.ResolvePath(project.Path)
	project.LocalizedStringKitPath = m.ResolvePath(project.LocalizedStringKitPath)
	project.ExclusionFile = m.ResolvePath(project.ExclusionFile)
	return project
}

func isAbsoluteOrRootedPath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	return strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\")
}
