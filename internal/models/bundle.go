package models

import (
	"path/filepath"
	"strings"
)

const (
	bundleSuffix  = ".bundle"
	listingSuffix = ".m"

	// DefaultBundle receives every string whose call site names no bundle.
	DefaultBundle = "LocalizedStringKit" + bundleSuffix
)

// BundleDirName maps a bundle name as written in source to the directory
// holding its resources. An empty name selects DefaultBundle.
func BundleDirName(bundle string) string {
	if bundle == "" {
		return DefaultBundle
	}
	if strings.HasSuffix(bundle, bundleSuffix) {
		return bundle
	}
	return bundle + bundleSuffix
}

// ListingFileName is the tracked intermediate listing kept next to the bundle
// directory, e.g. "info.bundle" -> "info.m".
func ListingFileName(bundle string) string {
	return strings.TrimSuffix(BundleDirName(bundle), bundleSuffix) + listingSuffix
}

// BundlePaths resolves every on-disk location belonging to one bundle below root.
type BundlePaths struct {
	Root   string
	Bundle string
}

func NewBundlePaths(root string, bundle string) BundlePaths {
	return BundlePaths{Root: root, Bundle: BundleDirName(bundle)}
}

func (p BundlePaths) Dir() string {
	return filepath.Join(p.Root, p.Bundle)
}

func (p BundlePaths) ListingPath() string {
	return filepath.Join(p.Root, ListingFileName(p.Bundle))
}

func (p BundlePaths) LocaleDir(language string) string {
	return filepath.Join(p.Dir(), language+".lproj")
}

func (p BundlePaths) StringsPath(language string, table string) string {
	return filepath.Join(p.LocaleDir(language), table+".strings")
}

func (p BundlePaths) StringsDictPath(language string, table string) string {
	return filepath.Join(p.LocaleDir(language), table+".stringsdict")
}
