// Package log wraps logrus with the printf-style API used across minimind.
package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()

// Options configures the process-wide logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "text" or "json".
	Format string
	// File, when non-empty, duplicates output to the given log file.
	File string
}

// Init configures the global logger. Safe to call once at process start.
func Init(opts Options) error {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	std.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		std.SetFormatter(&logrus.JSONFormatter{})
	} else {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		std.SetOutput(io.MultiWriter(os.Stderr, f))
	}
	return nil
}

// SetOutput redirects log output, used by tests and the TUI (which owns the
// terminal while running).
func SetOutput(w io.Writer) { std.SetOutput(w) }

// WithField returns an entry carrying a structured field.
func WithField(key string, value interface{}) *logrus.Entry { return std.WithField(key, value) }

func Debug(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(format string, args ...interface{}) { std.Errorf(format, args...) }
func Fatal(format string, args ...interface{}) { std.Fatalf(format, args...) }
