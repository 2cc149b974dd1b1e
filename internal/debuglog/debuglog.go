// Package debuglog provides file-based debug logging shared by the
// scheduling and execution components.
package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// pkgLogger is the process-wide debug logger.
var pkgLogger *Logger
var pkgLoggerMu sync.RWMutex

// SetPackageLogger sets the process-wide logger used by Log.
func SetPackageLogger(l *Logger) {
	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	pkgLogger = l
}

// Log writes a message using the process-wide logger. Components that
// don't carry their own logger call this.
func Log(format string, args ...interface{}) {
	pkgLoggerMu.RLock()
	l := pkgLogger
	pkgLoggerMu.RUnlock()

	if l != nil {
		l.Log(format, args...)
	}
}

// Logger provides debug logging for scheduling and execution operations.
// It wraps file-based logging with thread-safe access.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// New creates a logger writing to the specified path.
// If the path is empty, returns a no-op logger.
// Creates parent directories if they don't exist.
func New(logPath string) (*Logger, error) {
	if logPath == "" {
		return &Logger{}, nil
	}

	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := &Logger{file: f}
	logger.Log("=== Debug Log Started at %s ===", time.Now().Format(time.RFC3339))
	return logger, nil
}

// NewForProject creates a debug logger in the project's .foreman/logs
// directory. Returns a no-op logger if the directory cannot be created.
func NewForProject(projectPath string) *Logger {
	logPath := filepath.Join(projectPath, ".foreman", "logs", "scheduler-debug.log")
	logger, err := New(logPath)
	if err != nil {
		return &Logger{}
	}
	return logger
}

// Nop returns a no-op logger for testing or when logging is disabled.
func Nop() *Logger {
	return &Logger{}
}

// Log writes a timestamped message to the debug log.
// If the logger is nil or has no file, this is a no-op.
func (l *Logger) Log(format string, args ...interface{}) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, msg)
	l.file.Sync()
}

// Close closes the log file.
// Safe to call on nil logger or logger without file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
