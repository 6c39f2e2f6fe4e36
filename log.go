package synclab

import "github.com/rs/zerolog"

// logger is the package-wide ambient sink for slow-path diagnostics: a
// TryLock giving up after backing off through its full timeout
// (TOLock, CompositeLock) and a hazard-pointer domain running out of
// reservation slots (reclaim.Domain). It never logs from a hot CAS or
// backoff loop itself — only the terminal give-up. Defaults to a disabled
// logger so importing this module is silent unless a host wires one in.
var logger = zerolog.Nop()

// SetLogger installs the logger used for slow-path diagnostics across this
// module and its subpackages. Passing zerolog.Nop() (the default) silences
// it again.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the currently installed logger, for subpackages that log
// their own slow paths (lock, reclaim).
func Logger() zerolog.Logger {
	return logger
}
