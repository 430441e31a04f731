package errors

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger with verbose mode support.
// Non-verbose loggers emit errors only; verbose loggers emit everything down to debug.
type Logger struct {
	mu      sync.Mutex
	zl      zerolog.Logger
	verbose bool
}

// Global logger instance
var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a logger writing human-readable lines to output.
func NewLogger(output io.Writer, verbose bool) *Logger {
	l := &Logger{}
	l.configure(output, verbose)
	return l
}

func (l *Logger) configure(output io.Writer, verbose bool) {
	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        output,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}
	l.zl = zerolog.New(cw).Level(level).With().Timestamp().Logger()
	l.verbose = verbose
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.configure(currentOutput, verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

var currentOutput io.Writer = os.Stderr

// SetOutput sets the output writer for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	currentOutput = w
	defaultLogger.configure(w, defaultLogger.verbose)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Error().Msgf(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Warn().Msgf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Info().Msgf(format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Debug().Msgf(format, args...)
}

// LogAPIRequest logs an outgoing provider request in verbose mode.
// The prompt itself is never logged, only its length.
func (l *Logger) LogAPIRequest(provider, endpoint, model, requestID string, promptLength int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	l.zl.Debug().
		Str("provider", provider).
		Str("endpoint", endpoint).
		Str("model", model).
		Str("request_id", requestID).
		Int("prompt_length", promptLength).
		Msg("API request")
}

// LogAPIResponse logs a provider response in verbose mode.
func (l *Logger) LogAPIResponse(provider, requestID string, statusCode int, responseLength int, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	l.zl.Debug().
		Str("provider", provider).
		Str("request_id", requestID).
		Int("status", statusCode).
		Int("response_length", responseLength).
		Dur("duration", duration).
		Msg("API response")
}

// LogConfigSource logs which tier supplied a resolved setting.
func (l *Logger) LogConfigSource(setting, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Debug().Str("setting", setting).Str("source", source).Msg("config resolved")
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an API request in verbose mode.
func LogAPIRequest(provider, endpoint, model, requestID string, promptLength int) {
	defaultLogger.LogAPIRequest(provider, endpoint, model, requestID, promptLength)
}

// LogAPIResponse logs an API response in verbose mode.
func LogAPIResponse(provider, requestID string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, requestID, statusCode, responseLength, duration)
}

// LogConfigSource logs which tier supplied a resolved setting.
func LogConfigSource(setting, source string) {
	defaultLogger.LogConfigSource(setting, source)
}

// MaskAPIKey masks an API key for display or logging, showing only the last 4 characters.
// An empty key stays empty.
func MaskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
