package config

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataResolvePathAnchorsRelativePaths(t *testing.T) {
	meta := NewMetadata(filepath.FromSlash("/home/user/app/.lsk.json"))
	assert.Equal(t, filepath.FromSlash("/home/user/app/Sources"), meta.ResolvePath("Sources"))
	assert.Equal(t, filepath.FromSlash("/home/user/Shared"), meta.ResolvePath("../Shared"))
	assert.Equal(t, "", meta.ResolvePath(""))
}

func TestMetadataResolvePathKeepsRootedForwardSlash(t *testing.T) {
	meta := NewMetadata(filepath.FromSlash("/home/user/.lsk.json"))
	assert.Equal(t, "/var/app/Strings", meta.ResolvePath("/var/app/Strings"))
}

func TestMetadataResolvePathKeepsWindowsDriveAbsolute(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows-only coverage for drive-letter absolute paths")
	}

	meta := NewMetadata(`C:\home\user\.lsk.json`)
	assert.Equal(t, `C:\var\app`, meta.ResolvePath(`C:\var\app`))
}
