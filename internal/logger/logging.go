// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Everything writes to stderr since stdout carries the IPC stream.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is the default prefix for wordexpand loggers.
const Prefix = "wordexpand"

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return newTo(os.Stderr, prefix, level, caller, showTimestamp, fmt)
}

func newTo(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup replaces the global logger. verbose selects debug level and caller
// reporting; format is "text", "json" or "logfmt".
func Setup(w io.Writer, verbose bool, format string) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	l := newTo(w, Prefix, level, verbose, true, ParseFormatter(format))
	log.SetDefault(l)
	return l
}

// ParseFormatter maps a name to a formatter, defaulting to text.
func ParseFormatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
