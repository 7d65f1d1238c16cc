// Package logger writes user-facing output for the lsk CLI.
package logger

import (
	"fmt"
	"io"
)

const warningPrefix = "warning: "

type Logger struct {
	out   io.Writer
	err   io.Writer
	quiet bool
	debug bool
}

func New(out io.Writer, err io.Writer, quiet bool, debug bool) *Logger {
	return &Logger{
		out:   out,
		err:   err,
		quiet: quiet,
		debug: debug,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, io.Discard, true, false)
}

func (logger *Logger) IsDebug() bool {
	return logger.debug
}

// Log writes to stdout unless quiet. forceShow or debug mode overrides quiet.
func (logger *Logger) Log(message string, forceShow bool) {
	if logger.quiet && !forceShow && !logger.debug {
		return
	}
	if _, err := fmt.Fprintln(logger.out, message); err != nil {
		return
	}
}

func (logger *Logger) Logf(format string, args ...any) {
	logger.Log(fmt.Sprintf(format, args...), false)
}

func (logger *Logger) Debug(message string) {
	if !logger.debug {
		return
	}
	if _, err := fmt.Fprintln(logger.out, message); err != nil {
		return
	}
}

func (logger *Logger) Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// Warn goes to stderr and is never silenced by quiet.
func (logger *Logger) Warn(message string) {
	if _, err := fmt.Fprintln(logger.err, warningPrefix+message); err != nil {
		return
	}
}

func (logger *Logger) Warnf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func (logger *Logger) Error(message string) {
	if _, err := fmt.Fprintln(logger.err, message); err != nil {
		return
	}
}

func (logger *Logger) Errorf(format string, args ...any) {
	if _, err := fmt.Fprintf(logger.err, format, args...); err != nil {
		return
	}
}
