// Package logger provides process-wide logging for sercha-discord.
// Debug, Info and Section output is only written in verbose mode
// (--verbose or SERCHA_VERBOSE). Warnings and errors are always written,
// so dropped messages and index failures reach the operator.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetTimestamps prefixes every line with an RFC3339 time when enabled.
// The long-running gateway enables it; one-shot commands leave it off.
func SetTimestamps(v bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = v
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(gated bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	if timestamps {
		fmt.Fprintf(output, "%s ", now().UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
