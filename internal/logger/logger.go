// Package logger provides verbose logging for docgraph.
// Nothing is written unless verbose mode is on (the --verbose flag).
// Engine operations log through an Op, which tags every line with the
// operation name and reports the elapsed time when the operation ends.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level prefixes.
const (
	levelDebug = "DEBUG"
	levelInfo  = "INFO"
	levelWarn  = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr

	// now is replaced in tests.
	now = time.Now
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

// SetOutput sets the writer for verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, format, args...)
	}
}

func logf(level, scope, format string, args ...any) {
	if !IsVerbose() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if scope != "" {
		write("[%s] %s: %s\n", level, scope, msg)
		return
	}
	write("[%s] %s\n", level, msg)
}

// Debug prints a debug message.
func Debug(format string, args ...any) { logf(levelDebug, "", format, args...) }

// Info prints an informational message.
func Info(format string, args ...any) { logf(levelInfo, "", format, args...) }

// Warn prints a warning.
func Warn(format string, args ...any) { logf(levelWarn, "", format, args...) }

// Section prints a section header.
func Section(name string) {
	write("\n=== %s ===\n", name)
}

// Op logs on behalf of one engine operation.
type Op struct {
	name  string
	start time.Time
}

// Start prints a section header for the operation and starts its clock.
func Start(name string) *Op {
	Section(name)
	return &Op{name: name, start: now()}
}

// Name returns the operation name.
func (o *Op) Name() string { return o.name }

// Debug prints a debug message tagged with the operation name.
func (o *Op) Debug(format string, args ...any) { logf(levelDebug, o.name, format, args...) }

// Info prints an informational message tagged with the operation name.
func (o *Op) Info(format string, args ...any) { logf(levelInfo, o.name, format, args...) }

// Warn prints a warning tagged with the operation name.
func (o *Op) Warn(format string, args ...any) { logf(levelWarn, o.name, format, args...) }

// Done prints the operation summary followed by the elapsed time.
func (o *Op) Done(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	elapsed := now().Sub(o.start).Round(time.Millisecond)
	logf(levelInfo, o.name, "%s (%v)", fmt.Sprintf(format, args...), elapsed)
}
