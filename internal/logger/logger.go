// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger provides verbose diagnostic logging for the CLI. When
// verbose mode is off, L returns a no-op logger; when on, debug output goes
// to stderr through a zap console encoder.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	current           = zap.NewNop()
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer verbose logs go to. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// L returns the current logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Section logs a stage header.
func Section(name string) {
	L().Debug("=== " + name + " ===")
}

// rebuild must be called with mu held.
func rebuild() {
	if !verbose {
		current = zap.NewNop()
		return
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(output),
		zapcore.DebugLevel,
	)
	current = zap.New(core)
}
