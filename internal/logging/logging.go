package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

var (
	disabled atomic.Bool
	logger   atomic.Pointer[slog.Logger]
)

func init() {
	logger.Store(newLogger(os.Stdout, slog.LevelInfo, "text"))
}

// Init replaces the process logger. format is "text" (colored console) or "json".
func Init(level, format string) {
	logger.Store(newLogger(os.Stdout, parseLevel(level), format))
}

// SetOutput points the logger at w, keeping the current format rules. Used by tests.
func SetOutput(w io.Writer, level, format string) {
	logger.Store(newLogger(w, parseLevel(level), format))
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    w != os.Stdout,
	}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog returns the underlying structured logger.
func Slog() *slog.Logger {
	return logger.Load()
}

// Disable turns off all logging
func Disable() {
	disabled.Store(true)
}

// Enable turns logging back on
func Enable() {
	disabled.Store(false)
}

func emit(level slog.Level, msg string) {
	if disabled.Load() {
		return
	}
	logger.Load().Log(context.Background(), level, msg)
}

// Info logs an info message
func Info(v ...any) { emit(slog.LevelInfo, fmt.Sprint(v...)) }

// Infof logs a formatted info message
func Infof(format string, v ...any) { emit(slog.LevelInfo, fmt.Sprintf(format, v...)) }

// Error logs an error message
func Error(v ...any) { emit(slog.LevelError, fmt.Sprint(v...)) }

// Errorf logs a formatted error message
func Errorf(format string, v ...any) { emit(slog.LevelError, fmt.Sprintf(format, v...)) }

// Warn logs a warning message
func Warn(v ...any) { emit(slog.LevelWarn, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) { emit(slog.LevelWarn, fmt.Sprintf(format, v...)) }

// Debug logs a debug message
func Debug(v ...any) { emit(slog.LevelDebug, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) { emit(slog.LevelDebug, fmt.Sprintf(format, v...)) }

// Logger carries request-scoped attributes (currently the owner id).
type Logger struct {
	attrs []any
}

type ownerKey struct{}

// ContextWithOwner tags ctx so WithContext loggers include the owner id.
func ContextWithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// WithContext creates a Logger carrying the attributes found on ctx.
func WithContext(ctx context.Context) Logger {
	if owner, ok := ctx.Value(ownerKey{}).(string); ok && owner != "" {
		return Logger{attrs: []any{"owner", owner}}
	}
	return Logger{}
}

func (l Logger) emit(level slog.Level, msg string) {
	if disabled.Load() {
		return
	}
	logger.Load().Log(context.Background(), level, msg, l.attrs...)
}

// Info logs an info message
func (l Logger) Info(v ...any) { l.emit(slog.LevelInfo, fmt.Sprint(v...)) }

// Infof logs a formatted info message
func (l Logger) Infof(format string, v ...any) { l.emit(slog.LevelInfo, fmt.Sprintf(format, v...)) }

// Warnf logs a formatted warning message
func (l Logger) Warnf(format string, v ...any) { l.emit(slog.LevelWarn, fmt.Sprintf(format, v...)) }

// Error logs an error message
func (l Logger) Error(v ...any) { l.emit(slog.LevelError, fmt.Sprint(v...)) }

// Errorf logs a formatted error message
func (l Logger) Errorf(format string, v ...any) { l.emit(slog.LevelError, fmt.Sprintf(format, v...)) }
