// Package logger provides structured logging for the application
// using the Uber zap logging library.
package logger

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

// Log is the global SugaredLogger instance. It must be initialized via Init()
// before use; handlers and services log internal error detail here that is
// never sent to the client.
var Log = zap.NewNop().Sugar()

// Init initializes the global logger at the given level ("debug", "info", ...).
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
