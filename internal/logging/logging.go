// Package logging holds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Starts as a no-op so packages can log before Init runs.
var log = zap.NewNop().Sugar()

// Init builds the console logger. Verbose enables debug-level output.
func Init(verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return
	}
	log = l.Sugar()
}

// L returns the current sugared logger.
func L() *zap.SugaredLogger { return log }
