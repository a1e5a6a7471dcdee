// Package logger writes structured logs to a size-rotated file in the
// config directory. Verbose runs also echo every line to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/rotipani/internal/constants"
)

// Nothing is written until Init.
var std = log.New(io.Discard)

type Options struct {
	// Dir receives the logs/ directory
	Dir string
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string
	// Verbose forces debug level, caller reporting and a stderr copy
	Verbose bool
	// Stderr defaults to os.Stderr
	Stderr io.Writer
}

// FilePath is where Init writes for a config directory
func FilePath(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

// Init replaces the process logger. The returned closer flushes and
// closes the log file.
func Init(opts Options) (io.Closer, error) {
	path := FilePath(opts.Dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}

	level, err := log.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = log.WarnLevel
	}

	var w io.Writer = file
	if opts.Verbose {
		level = log.DebugLevel
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(stderr, file)
	}

	std = log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    opts.Verbose,
	})
	return file, nil
}

// With returns a child logger carrying keyvals on every line
func With(keyvals ...interface{}) *log.Logger {
	return std.With(keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { std.Helper(); std.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { std.Helper(); std.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { std.Helper(); std.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { std.Helper(); std.Error(msg, keyvals...) }
