package timingwheel

import (
	"github.com/intuitivelabs/slog"
)

// NAME identifies this package in log output.
const NAME = "timingwheel"

// Log is the package-wide logger. Callers may change its level or output
// at init time, e.g. slog.SetLevel(&Log, slog.LWARN).
var Log slog.Log = slog.New(slog.LWARN, 0, slog.LStdOut)

// DBGon returns true if debug-level logging is enabled.
func DBGon() bool {
	return Log.DBGon()
}

// ERRon returns true if error-level logging is enabled.
func ERRon() bool {
	return Log.ERRon()
}

// WARNon returns true if warning-level logging is enabled.
func WARNon() bool {
	return Log.WARNon()
}

// DBG logs a debug message.
func DBG(f string, a ...interface{}) {
	Log.DBG(f, a...)
}

// ERR logs an error message.
func ERR(f string, a ...interface{}) {
	Log.ERR(f, a...)
}

// WARN logs a warning message.
func WARN(f string, a ...interface{}) {
	Log.WARN(f, a...)
}

// BUG logs an internal-invariant-violation message. It does not stop
// execution: callers decide whether the corruption it reports is fatal.
func BUG(f string, a ...interface{}) {
	Log.BUG(f, a...)
}

// PANIC logs an internal-invariant-violation message and then panics.
// It is reserved for linkage corruption that makes it unsafe to continue
// (see list.go), never for recoverable, caller-triggerable conditions.
func PANIC(f string, a ...interface{}) {
	Log.PANIC(f, a...)
}
