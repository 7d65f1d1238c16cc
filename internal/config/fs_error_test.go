package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type fsOperation string

const (
	opStat fsOperation = "stat"
	opOpen fsOperation = "open"
)

// failingFs fails one operation on one path and delegates everything else.
type failingFs struct {
	afero.Fs
	op   fsOperation
	path string
}

func (filesystem failingFs) fails(op fsOperation, name string) error {
	if op == filesystem.op && filepath.Clean(name) == filepath.Clean(filesystem.path) {
		return errors.New(string(op) + " failed")
	}
	return nil
}

func (filesystem failingFs) Stat(name string) (os.FileInfo, error) {
	if err := filesystem.fails(opStat, name); err != nil {
		return nil, err
	}
	return filesystem.Fs.Stat(name)
}

func (filesystem failingFs) Open(name string) (afero.File, error) {
	if err := filesystem.fails(opOpen, name); err != nil {
		return nil, err
	}
	return filesystem.Fs.Open(name)
}
