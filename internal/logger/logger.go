// Package logger provides verbose logging for the Blueprint CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow an import phase by phase.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
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

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func printf(onlyVerbose bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if onlyVerbose && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	printf(true, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
// The builder opens one section per phase.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	printf(true, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	printf(true, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
// Used for failures that would otherwise be lost, such as a rollback error.
func Error(format string, args ...any) {
	printf(false, "[ERROR] ", format, args...)
}
