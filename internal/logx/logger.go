// Package logx is a small structured logger used throughout bfs.
//
// It follows the shape of a job logger: a LogLevel enum with a
// minimum-severity filter, and a Logger interface that the engine logs
// through instead of calling the log package directly.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sync"

	"github.com/JeffreyRichter/enum/enum"
)

// LogLevel is the severity of a single log entry.
type LogLevel uint8

const (
	LogNone LogLevel = iota
	LogError
	LogWarning
	LogInfo
	LogDebug
)

// ELogLevel is the symbol-table receiver for LogLevel, following the same
// enum idiom used for bftw.EType, bftw.EAction, and friends.
var ELogLevel = LogLevel(LogNone)

func (LogLevel) None() LogLevel    { return LogNone }
func (LogLevel) Error() LogLevel   { return LogError }
func (LogLevel) Warning() LogLevel { return LogWarning }
func (LogLevel) Info() LogLevel    { return LogInfo }
func (LogLevel) Debug() LogLevel   { return LogDebug }

func (ll LogLevel) String() string {
	switch ll {
	case ELogLevel.None():
		return "NONE"
	case ELogLevel.Error():
		return "ERR"
	case ELogLevel.Warning():
		return "WARN"
	case ELogLevel.Info():
		return "INFO"
	case ELogLevel.Debug():
		return "DBG"
	default:
		return enum.StringInt(ll, reflect.TypeOf(ll))
	}
}

// Parse parses a LogLevel from the name of its symbol method (None, Error,
// Warning, Info, Debug), case-insensitively. The abbreviated String() forms
// such as "ERR" or "DBG" are not names of those methods.
func (ll *LogLevel) Parse(s string) error {
	val, err := enum.ParseInt(reflect.TypeOf(*ll), s, true, true)
	if err == nil {
		*ll = val.(LogLevel)
	}
	return err
}

// Logger is the interface the engine logs through. Callers may supply their
// own (e.g. to integrate with an existing logging framework); Nop and New
// cover the common cases.
type Logger interface {
	ShouldLog(level LogLevel) bool
	Logf(level LogLevel, format string, args ...interface{})
}

// nopLogger discards everything; it's the default when no logger is wired.
type nopLogger struct{}

func (nopLogger) ShouldLog(LogLevel) bool                        { return false }
func (nopLogger) Logf(LogLevel, string, ...interface{})          {}

// Nop is a Logger that discards all log entries.
var Nop Logger = nopLogger{}

type stdLogger struct {
	mu       sync.Mutex
	minLevel LogLevel
	out      *log.Logger
	runID    string
}

// New returns a Logger that writes lines at or below minLevel to w, each
// tagged with runID so that concurrent walks in the same process don't
// interleave unreadably.
func New(w io.Writer, minLevel LogLevel, runID string) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &stdLogger{
		minLevel: minLevel,
		out:      log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		runID:    runID,
	}
}

func (l *stdLogger) ShouldLog(level LogLevel) bool {
	if level == LogNone {
		return false
	}
	return level <= l.minLevel
}

func (l *stdLogger) Logf(level LogLevel, format string, args ...interface{}) {
	if !l.ShouldLog(level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if l.runID != "" {
		l.out.Printf("%s [%s] %s", level, l.runID, msg)
	} else {
		l.out.Printf("%s %s", level, msg)
	}
}
