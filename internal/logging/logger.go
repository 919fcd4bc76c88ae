package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level represents log severity.
type Level int

const (
	// LevelDebug indicates fine-grained diagnostic logging.
	LevelDebug Level = iota
	// LevelInfo indicates informational logging.
	LevelInfo
	// LevelWarning indicates non-fatal warnings.
	LevelWarning
	// LevelError indicates error logging requiring attention.
	LevelError
	// LevelCritical indicates failures the program cannot continue from.
	LevelCritical
)

// ParseLevel converts a level name to a Level. Names are matched case
// insensitively.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (valid levels: debug, info, warning, error, critical)", name)
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	}
	return "info"
}

// Format selects how log lines are rendered.
type Format int

const (
	// FormatText writes human-readable lines with a colored glyph prefix.
	FormatText Format = iota
	// FormatJSON writes one JSON event object per line.
	FormatJSON
)

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q (valid formats: text, json)", name)
}

// event is the JSON shape of one log line in FormatJSON.
type event struct {
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Logger writes leveled messages to stderr or a file. Messages below the
// configured level are dropped. The zero value is not usable; construct
// through New or NewFromConfig.
//
// out is only set for file sinks; a nil out resolves os.Stderr at log
// time, so messages follow the current stderr.
type Logger struct {
	level   Level
	format  Format
	noColor bool
	out     io.Writer
	file    *os.File
}

// New creates a text logger writing to stderr.
func New(level Level, noColor bool) *Logger {
	return &Logger{
		level:   level,
		format:  FormatText,
		noColor: noColor,
	}
}

// NewFromConfig creates a logger from a loaded logging configuration,
// opening the file sink when one is configured. noColor is the caller's
// color preference; the configuration may override it.
func NewFromConfig(cfg *Config, noColor bool) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format := FormatText
	if cfg.Format != "" {
		if format, err = ParseFormat(cfg.Format); err != nil {
			return nil, err
		}
	}
	if cfg.Color != nil {
		noColor = !*cfg.Color
	}

	logger := &Logger{
		level:   level,
		format:  format,
		noColor: noColor,
	}
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.out = file
		logger.file = file
		// ANSI sequences are useless in a file.
		logger.noColor = true
	}
	return logger, nil
}

// Close closes the file sink if one is open.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Level returns the minimum level the logger emits.
func (l *Logger) Level() Level {
	return l.level
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, "[DEBUG]", "\033[36m", format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "✓", "\033[32m", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarning, "⚠", "\033[33m", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, "✗", "\033[31m", format, args...)
}

// Critical logs a message about an unrecoverable failure.
func (l *Logger) Critical(format string, args ...interface{}) {
	l.log(LevelCritical, "✗", "\033[31;1m", format, args...)
}

func (l *Logger) log(level Level, glyph, color, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	out := l.out
	if out == nil {
		out = os.Stderr
	}

	if l.format == FormatJSON {
		data, err := json.Marshal(event{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     level.String(),
			Message:   msg,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal log event: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(data))
		return
	}

	if !l.noColor {
		fmt.Fprintf(out, "%s%s\033[0m %s\n", color, glyph, msg)
	} else {
		fmt.Fprintf(out, "%s %s\n", glyph, msg)
	}
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
