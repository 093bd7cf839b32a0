package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
}

// Logger writes human-readable text to stdout and, when a directory is
// configured, JSON lines to a file. The printf-style helpers mirror how the
// rest of the codebase logs.
type Logger struct {
	level   slog.Level
	console *slog.Logger
	file    *slog.Logger
	closer  io.Closer
	mu      sync.RWMutex
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New creates a Logger. File output is optional: an empty Dir keeps logging
// console-only.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)

	l := &Logger{
		level: level,
		console: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})),
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		filename := cfg.Filename
		if filename == "" {
			filename = "server.log"
		}
		path := filepath.Join(cfg.Dir, filename)
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: level,
		}))
		l.closer = file
	}

	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		err := l.closer.Close()
		l.closer = nil
		return err
	}
	return nil
}

func (l *Logger) log(level slog.Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, args...)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	ctx := context.Background()
	l.console.Log(ctx, level, msg)
	if l.file != nil {
		l.file.Log(ctx, level, msg)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) logTag(level slog.Level, tag, msg string, args ...interface{}) {
	l.log(level, "["+tag+"] "+msg, args...)
}

func (l *Logger) DebugTag(tag, msg string, args ...interface{}) {
	l.logTag(slog.LevelDebug, tag, msg, args...)
}

func (l *Logger) InfoTag(tag, msg string, args ...interface{}) {
	l.logTag(slog.LevelInfo, tag, msg, args...)
}

func (l *Logger) WarnTag(tag, msg string, args ...interface{}) {
	l.logTag(slog.LevelWarn, tag, msg, args...)
}

func (l *Logger) ErrorTag(tag, msg string, args ...interface{}) {
	l.logTag(slog.LevelError, tag, msg, args...)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return &Logger{
		level:   slog.LevelError + 4,
		console: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
