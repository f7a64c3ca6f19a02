// Package logger wraps the global zap sugared logger used by the engine
// packages. Diagnostics (retries, skipped files, cache corruption) go through
// here; user-facing command output is written by the cli package directly.
//
// Call Initialize once at startup. Until then zap's no-op global logger is
// installed, so library code and tests log nothing.
package logger
