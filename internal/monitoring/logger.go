// Package monitoring holds the process-wide diagnostic logger used by the
// analysis pipeline. Detector evaluation is chatty at debug level; keeping
// the logger swappable lets tests mute it and tools redirect it.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// debugEnabled gates per-frame detector tracing, which is far too verbose for
// normal runs.
var debugEnabled bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug toggles per-frame detector tracing.
func SetDebug(on bool) {
	debugEnabled = on
}

// Debugf logs only when debug tracing is enabled.
func Debugf(format string, v ...interface{}) {
	if debugEnabled {
		Logf(format, v...)
	}
}
