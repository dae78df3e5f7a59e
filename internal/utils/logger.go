package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log messages by severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogLevelEnv overrides the minimum level when verbose mode is off
const LogLevelEnv = "QATRACK_LOG_LEVEL"

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel accepts debug, info, warn/warning and error in any case
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled messages to stderr. Debug messages need verbose mode.
type Logger struct {
	mu       sync.RWMutex
	out      *log.Logger
	minLevel Level
	verbose  bool
}

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// GetLogger returns the process-wide logger
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		globalLogger = &Logger{out: log.New(os.Stderr, "", 0), minLevel: LevelInfo}
		if env := os.Getenv(LogLevelEnv); env != "" {
			if lvl, err := ParseLevel(env); err == nil {
				globalLogger.minLevel = lvl
			}
		}
	})
	return globalLogger
}

// SetVerbose switches debug output and timestamps on or off
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	flags := 0
	if verbose {
		flags = log.Ldate | log.Ltime | log.Lmicroseconds
	}
	l.out.SetFlags(flags)
}

// SetLevel sets the lowest level written when verbose mode is off
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetOutput redirects log output
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetOutput(w)
}

// Enabled reports whether messages of level are written
func (l *Logger) Enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.verbose {
		return true
	}
	return level != LevelDebug && level >= l.minLevel
}

// Logf writes one message at level
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) { GetLogger().Logf(LevelDebug, format, args...) }
func Infof(format string, args ...interface{}) { GetLogger().Logf(LevelInfo, format, args...) }
func Warnf(format string, args ...interface{}) { GetLogger().Logf(LevelWarn, format, args...) }
func Errorf(format string, args ...interface{}) { GetLogger().Logf(LevelError, format, args...) }

// SetVerboseMode toggles verbose mode on the global logger
func SetVerboseMode(verbose bool) {
	GetLogger().SetVerbose(verbose)
}

// LogOperationf runs fn and logs its start, duration and error at debug level
func LogOperationf(format string, fn func() error, args ...interface{}) error {
	operation := fmt.Sprintf(format, args...)
	Debugf("Starting operation: %s", operation)

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		Debugf("Operation failed: %s - %v (%v)", operation, err, elapsed)
	} else {
		Debugf("Operation completed: %s (%v)", operation, elapsed)
	}
	return err
}
