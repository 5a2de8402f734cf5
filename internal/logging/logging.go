package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "2006-01-02 15:04:05"

// Options configures New.
type Options struct {
	Level   string    // debug, info, warn, error; empty means info
	File    string    // appended to when set
	Console io.Writer // nil disables console output
	Prefix  string
	// Logfmt writes key=value lines instead of the human readable format.
	Logfmt bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to the console and the log file. The returned
// closer releases the log file and is never nil.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if opts.Console != nil {
		writers = append(writers, opts.Console)
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	formatter := log.TextFormatter
	if opts.Logfmt {
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           level,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything. Tests and library callers
// without a logger use it.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
