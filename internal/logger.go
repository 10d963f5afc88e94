package internal

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the level name used in log lines and diagnostic entries
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// LogEntry is one retained diagnostic record
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}

// logRingCapacity bounds the diagnostic buffer to the most recent entries
const logRingCapacity = 1000

var (
	logLevel = LogLevelInfo
	logger   = log.New(os.Stderr, "", log.LstdFlags)

	ringMu    sync.Mutex
	ring      [logRingCapacity]LogEntry
	ringNext  int
	ringCount int
)

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

func record(level LogLevel, format string, args ...interface{}) {
	entry := LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}
	ringMu.Lock()
	ring[ringNext] = entry
	ringNext = (ringNext + 1) % logRingCapacity
	if ringCount < logRingCapacity {
		ringCount++
	}
	ringMu.Unlock()

	if logLevel >= level {
		logger.Printf("[%s] %s", levelTag(level), entry.Message)
	}
}

func levelTag(level LogLevel) string {
	switch level {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// RecentLogs returns retained diagnostic entries in emission order, oldest
// first. At most the last 1000 entries are kept.
func RecentLogs() []LogEntry {
	ringMu.Lock()
	defer ringMu.Unlock()

	entries := make([]LogEntry, 0, ringCount)
	start := ringNext - ringCount
	if start < 0 {
		start += logRingCapacity
	}
	for i := 0; i < ringCount; i++ {
		entries = append(entries, ring[(start+i)%logRingCapacity])
	}
	return entries
}

// ResetLogs clears the diagnostic buffer
func ResetLogs() {
	ringMu.Lock()
	ringNext = 0
	ringCount = 0
	ringMu.Unlock()
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	record(LogLevelError, format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	record(LogLevelWarn, format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	record(LogLevelInfo, format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	record(LogLevelDebug, format, args...)
}
