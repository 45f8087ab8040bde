package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"ERROR", LogLevelError},
		{"error", LogLevelError},
		{"Error", LogLevelError},
		{"FATAL", LogLevelFatal},
		{"warn", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"NOTICE", LogLevel("NOTICE")}, // preserved verbatim
		{"trace", LogLevel("trace")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_Known(t *testing.T) {
	assert.True(t, LogLevelError.Known())
	assert.True(t, LogLevelDebug.Known())
	assert.False(t, LogLevel("NOTICE").Known())
	assert.False(t, LogLevel("").Known())
}

func TestLevelSet(t *testing.T) {
	t.Run("default set is ERROR and FATAL", func(t *testing.T) {
		set := DefaultErrorLevels()
		assert.True(t, set.Contains(LogLevelError))
		assert.True(t, set.Contains(LogLevelFatal))
		assert.False(t, set.Contains(LogLevelWarn))
	})

	t.Run("unknown levels never match", func(t *testing.T) {
		set := NewLevelSet("ERROR", "NOTICE")
		assert.False(t, set.Contains(LogLevel("NOTICE")))
		assert.True(t, set.Contains(LogLevelError))
	})

	t.Run("levels come back in severity order", func(t *testing.T) {
		set := NewLevelSet("fatal", "warn", "error")
		assert.Equal(t, []LogLevel{LogLevelWarn, LogLevelError, LogLevelFatal}, set.Levels())
	})
}
