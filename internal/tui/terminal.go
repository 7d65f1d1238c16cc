package tui

import (
	"io"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

var (
	isTerminalFunc = term.IsTerminal
	getSizeFunc    = term.GetSize
)

// SetIsTerminalFuncForTesting overrides the terminal detection function and returns a restore function.
// This is intended for cross-package tests that need deterministic TTY detection.
func SetIsTerminalFuncForTesting(fn func(int) bool) func() {
	previous := isTerminalFunc
	isTerminalFunc = fn
	return func() {
		isTerminalFunc = previous
	}
}

// IsTerminalWriter reports whether the writer wraps a file descriptor bound to a terminal.
func IsTerminalWriter(writer io.Writer) bool {
	if w, ok := writer.(fdWriter); ok {
		return isTerminalFunc(int(w.Fd()))
	}
	return false
}

// Width returns the column count of the terminal behind writer, or 0 when
// writer is not a terminal.
func Width(writer io.Writer) int {
	w, ok := writer.(fdWriter)
	if !ok || !isTerminalFunc(int(w.Fd())) {
		return 0
	}
	width, _, err := getSizeFunc(int(w.Fd()))
	if err != nil {
		return 0
	}
	return width
}
