package fileutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	DefaultFileMode os.FileMode = 0o644
	DefaultDirMode  os.FileMode = 0o755
)

// WriteFileAtomic writes data to a sibling temp file and renames it over
// targetPath, creating parent directories as needed. An existing target is
// either replaced in one rename or moved aside and restored on failure.
func WriteFileAtomic(fs afero.Fs, targetPath string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(targetPath), DefaultDirMode); err != nil {
		return err
	}

	tempPath, err := nextSiblingPath(fs, targetPath, ".tmp")
	if err != nil {
		return err
	}
	backupPath, err := nextSiblingPath(fs, targetPath, ".bak")
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, tempPath, data, DefaultFileMode); err != nil {
		return cleanupTempOnError(fs, tempPath, err)
	}

	exists, err := afero.Exists(fs, targetPath)
	if err != nil {
		return cleanupTempOnError(fs, tempPath, err)
	}
	if !exists {
		return renameTempIntoPlace(fs, tempPath, targetPath)
	}

	return replaceExistingFile(fs, tempPath, targetPath, backupPath)
}

func nextSiblingPath(fs afero.Fs, targetPath string, suffix string) (string, error) {
	base := targetPath + ".lsk" + suffix

	candidate := base
	for i := 0; i < 100; i++ {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s.%d", base, i+1)
	}

	return "", fmt.Errorf("cannot allocate sibling path for %s", targetPath)
}

// RemoveIfExists removes path and treats a missing file as success.
func RemoveIfExists(fs afero.Fs, path string) error {
	removeErr := fs.Remove(path)
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return removeErr
	}
	return nil
}

func removePathError(kind string, path string, err error) error {
	return fmt.Errorf("failed to remove %s %s: %w", kind, path, err)
}

func cleanupTempOnError(fs afero.Fs, tempPath string, originalErr error) error {
	if cleanupErr := RemoveIfExists(fs, tempPath); cleanupErr != nil {
		return errors.Join(originalErr, removePathError("temp file", tempPath, cleanupErr))
	}
	return originalErr
}

func renameTempIntoPlace(fs afero.Fs, tempPath string, targetPath string) error {
	renameErr := fs.Rename(tempPath, targetPath)
	if renameErr == nil {
		return nil
	}
	return cleanupTempOnError(fs, tempPath, renameErr)
}

func replaceExistingFile(fs afero.Fs, tempPath string, targetPath string, backupPath string) error {
	// Overwrite-rename first; the two-step fallback leaves a window where only the backup exists.
	if err := fs.Rename(tempPath, targetPath); err == nil {
		return nil
	}

	if err := fs.Rename(targetPath, backupPath); err != nil {
		return cleanupTempOnError(fs, tempPath, err)
	}

	if err := fs.Rename(tempPath, targetPath); err != nil {
		return restoreBackupOnFailure(fs, tempPath, targetPath, backupPath, err)
	}

	if err := RemoveIfExists(fs, backupPath); err != nil {
		return removePathError("backup file", backupPath, err)
	}

	return nil
}

func restoreBackupOnFailure(fs afero.Fs, tempPath string, targetPath string, backupPath string, renameErr error) error {
	cleanupErr := RemoveIfExists(fs, tempPath)
	rollbackErr := fs.Rename(backupPath, targetPath)
	if cleanupErr != nil {
		renameErr = errors.Join(renameErr, removePathError("temp file", tempPath, cleanupErr))
	}
	if rollbackErr != nil {
		renameErr = errors.Join(renameErr, fmt.Errorf("failed to restore backup %s: %w", backupPath, rollbackErr))
	}
	return renameErr
}
