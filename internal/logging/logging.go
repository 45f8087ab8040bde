// Package logging builds the process-wide diagnostic logger. Diagnostics
// go to stderr so they never mix with report output on stdout.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console-encoded zap logger at info level, or debug level
// when verbose is set.
func New(w io.Writer, verbose bool) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything, for quiet mode and tests
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
