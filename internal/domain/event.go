package domain

import (
	"strings"
	"time"
)

// LogLevel represents a log severity tag as it appears in the input
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

// Priority returns the priority of a log level (higher = more severe).
// Unknown levels sort between INFO and WARN.
func (l LogLevel) Priority() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelInfo:
		return 1
	case LogLevelWarn:
		return 3
	case LogLevelError:
		return 4
	case LogLevelFatal:
		return 5
	default:
		return 2
	}
}

// Known reports whether the level is one of the recognized tags
func (l LogLevel) Known() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal:
		return true
	}
	return false
}

// ParseLogLevel converts a level token to LogLevel. Matching is
// case-insensitive; unrecognized tokens are preserved verbatim.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	case "FATAL":
		return LogLevelFatal
	default:
		return LogLevel(s)
	}
}

// LevelSet is a set of levels treated as "error" by the detectors
type LevelSet map[LogLevel]struct{}

// NewLevelSet builds a LevelSet from level tokens
func NewLevelSet(levels ...string) LevelSet {
	set := make(LevelSet, len(levels))
	for _, l := range levels {
		set[ParseLogLevel(l)] = struct{}{}
	}
	return set
}

// DefaultErrorLevels returns the default set counted as errors
func DefaultErrorLevels() LevelSet {
	return LevelSet{LogLevelError: {}, LogLevelFatal: {}}
}

// Contains reports whether the level is in the set. Unknown levels never
// match, so they are excluded from the error-specific detectors.
func (s LevelSet) Contains(l LogLevel) bool {
	if !l.Known() {
		return false
	}
	_, ok := s[l]
	return ok
}

// Levels returns the set members in deterministic order
func (s LevelSet) Levels() []LogLevel {
	out := make([]LogLevel, 0, len(s))
	for _, l := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal} {
		if _, ok := s[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// LogEvent represents one parsed log line. Events are immutable: the
// parser creates them and analyzers only read them.
type LogEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	RawLine   string    `json:"rawLine,omitempty"`
}
