package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"openroutersidebar/internal/core"
)

// LogLevel defines the severity level for log messages.
type LogLevel int

// Log level constants.
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelPrefixes = map[LogLevel]string{
	DEBUG: "[DEBUG] ",
	INFO:  "[INFO] ",
	WARN:  "[WARN] ",
	ERROR: "[ERROR] ",
	FATAL: "[FATAL] ",
}

// ParseLevel maps a LOG_LEVEL value to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// AppLogger is the application logger implementation.
type AppLogger struct {
	logger     *log.Logger
	minLevel   LogLevel
	fileHandle *os.File
	mu         sync.RWMutex
}

// NewAppLoggerWithConfig creates a logger instance with configuration.
func NewAppLoggerWithConfig(output io.Writer, debugMode bool) *AppLogger {
	level := INFO
	if debugMode {
		level = DEBUG
	}
	return NewAppLoggerWithLevel(output, level)
}

// NewAppLoggerWithLevel creates a logger that drops messages below minLevel.
func NewAppLoggerWithLevel(output io.Writer, minLevel LogLevel) *AppLogger {
	return &AppLogger{
		logger:   log.New(output, "", log.LstdFlags),
		minLevel: minLevel,
	}
}

func (l *AppLogger) logf(level LogLevel, format string, args ...any) {
	if l == nil || level < l.minLevel {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Printf(levelPrefixes[level]+format, args...)
}

// Debug logs a message at DEBUG level.
func (l *AppLogger) Debug(format string, args ...any) { l.logf(DEBUG, format, args...) }

// Info logs a message at INFO level.
func (l *AppLogger) Info(format string, args ...any) { l.logf(INFO, format, args...) }

// Warn logs a message at WARN level.
func (l *AppLogger) Warn(format string, args ...any) { l.logf(WARN, format, args...) }

// Error logs a message at ERROR level.
func (l *AppLogger) Error(format string, args ...any) { l.logf(ERROR, format, args...) }

// Fatal logs a message at FATAL level and terminates the process.
func (l *AppLogger) Fatal(format string, args ...any) {
	if l != nil {
		l.logger.Fatalf(levelPrefixes[FATAL]+format, args...)
	} else {
		log.Fatalf(levelPrefixes[FATAL]+format, args...)
	}
}

// DebugEnabled reports whether Debug messages are written.
func (l *AppLogger) DebugEnabled() bool {
	return l != nil && l.minLevel <= DEBUG
}

// Close safely closes log file handle.
func (l *AppLogger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileHandle != nil {
		err := l.fileHandle.Close()
		l.fileHandle = nil
		return err
	}
	return nil
}

func containsPathTraversal(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

// createDebugFileOutput opens DEBUG_FILE for appending, falling back to stdout.
func createDebugFileOutput() (io.Writer, *os.File) {
	debugFile := os.Getenv("DEBUG_FILE")
	if debugFile == "" {
		return os.Stdout, nil
	}

	if len(debugFile) > core.MaxDebugFilePathLength {
		log.Printf("[WARN] DEBUG_FILE path too long, falling back to stdout")
		return os.Stdout, nil
	}

	if containsPathTraversal(debugFile) {
		log.Printf("[WARN] DEBUG_FILE contains path traversal characters, falling back to stdout")
		return os.Stdout, nil
	}

	//nolint:gosec // G304: debugFile from env var, validated by containsPathTraversal
	file, err := os.OpenFile(filepath.Clean(debugFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, core.FilePermissionReadWrite)
	if err != nil {
		log.Printf("[WARN] Failed to open DEBUG_FILE '%s': %v, falling back to stdout", debugFile, err)
		return os.Stdout, nil
	}

	return file, file
}

// IsDebug returns whether the app is running in debug mode.
func IsDebug() bool {
	return os.Getenv("GIN_MODE") == "debug"
}

// CreateLogger creates a logger instance (for dependency injection).
// GIN_MODE=debug forces DEBUG; otherwise LOG_LEVEL decides.
func CreateLogger() core.Logger {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	if IsDebug() {
		level = DEBUG
	}
	output, fileHandle := createDebugFileOutput()

	return &AppLogger{
		logger:     log.New(output, "", log.LstdFlags),
		minLevel:   level,
		fileHandle: fileHandle,
	}
}
