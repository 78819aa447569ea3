// Package logging provides file-based logging for inbox.
// Log lines go to a single rotating file (<data dir>/logs/inbox.log by default).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/inbox/internal/domain"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Options configures a Logger.
type Options struct {
	Path       string // Log file; empty disables logging
	Level      slog.Level
	MaxSizeMB  int // Rotate after this many megabytes
	MaxBackups int // Rotated files to keep
}

// Logger writes formatted lines to a rotating log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	out   io.WriteCloser
	now   func() time.Time
	mu    sync.Mutex
	level slog.Level
}

// New creates a new Logger. If opts.Path is empty, logging is disabled.
func New(opts Options) *Logger {
	l := &Logger{level: opts.Level, now: time.Now}
	if opts.Path == "" {
		return l
	}
	l.out = &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	return l
}

// FromConfig creates a Logger from the [log] section.
func FromConfig(cfg domain.LogConfig, dataDir string) *Logger {
	return New(Options{
		Path:       Path(cfg, dataDir),
		Level:      ParseLevel(cfg.Level),
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
}

// Path returns the log file the [log] section selects.
func Path(cfg domain.LogConfig, dataDir string) string {
	if cfg.File != "" || dataDir == "" {
		return cfg.File
	}
	return domain.DefaultLogPath(dataDir)
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [category] message
func formatLog(t time.Time, level slog.Level, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, category, msg string) {
	if level < l.level {
		return // Skip if below minimum level
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return // Logging disabled
	}
	_, _ = io.WriteString(l.out, formatLog(l.now(), level, category, msg))
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}
