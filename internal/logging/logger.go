// Package logging provides structured logging for sos-inbox.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger is the structured logging interface shared by every package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger
	// Shutdown flushes and releases the underlying sink.
	Shutdown() error
}

// Options configures a writer-backed logger.
type Options struct {
	Level string
	// JSON selects the JSON formatter; otherwise the human readable text formatter is used.
	JSON   bool
	Prefix string
}

type charmLogger struct {
	clogger *clog.Logger
	closer  io.Closer
	path    string
	once    *sync.Once
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) Logger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
	})
	if opts.JSON {
		clogger.SetFormatter(clog.JSONFormatter)
	}
	return &charmLogger{clogger: clogger, once: &sync.Once{}}
}

// Open creates a JSON log file under dir, rotating old files first.
// A disabled config yields a logger that discards everything.
func Open(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return Discard(), nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = LogDir()
		if err != nil {
			return nil, fmt.Errorf("determine log directory: %w", err)
		}
	}
	if err := rotate(dir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}

	name := fmt.Sprintf("%s%s_PID%d_%s.log",
		filePrefix,
		time.Now().Format("20060102_150405"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := New(f, Options{Level: cfg.Level, JSON: true}).(*charmLogger)
	l.clogger = l.clogger.With("pid", cfg.PID, "command", cfg.Command)
	l.closer = f
	l.path = path
	return l, nil
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *charmLogger) Debug(msg string, args ...any) {
	l.clogger.Debug(msg, redact(args)...)
}

func (l *charmLogger) Info(msg string, args ...any) {
	l.clogger.Info(msg, redact(args)...)
}

func (l *charmLogger) Warn(msg string, args ...any) {
	l.clogger.Warn(msg, redact(args)...)
}

func (l *charmLogger) Error(msg string, args ...any) {
	l.clogger.Error(msg, redact(args)...)
}

func (l *charmLogger) With(args ...any) Logger {
	return &charmLogger{
		clogger: l.clogger.With(redact(args)...),
		closer:  l.closer,
		path:    l.path,
		once:    l.once,
	}
}

// Shutdown closes the log file once, even when called from derived loggers.
func (l *charmLogger) Shutdown() error {
	var err error
	l.once.Do(func() {
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (n noopLogger) With(...any) Logger { return n }
func (noopLogger) Shutdown() error      { return nil }

// Discard returns a logger that drops every entry.
func Discard() Logger {
	return noopLogger{}
}
