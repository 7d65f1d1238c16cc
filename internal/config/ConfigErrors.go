package config

import "fmt"

type FileInvalidError struct {
	Path string
	Err  error
}

type FileNotFoundError struct {
	Path string
}

func (e *FileInvalidError) Error() string {
	return fmt.Sprintf("Configuration file %s is invalid: %s", e.Path, e.Err)
}

func (e *FileInvalidError) Unwrap() error {
	return e.Err
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("Configuration file not found: %s", e.Path)
}

func (e *FileNotFoundError) Is(target error) bool {
	_, ok := target.(*FileNotFoundError)
	return ok
}
