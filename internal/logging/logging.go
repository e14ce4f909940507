// Package logging holds the logger shared by the tracediff packages.
//
// By default nothing is logged. The CLI installs a real handler with
// SetLogger; tests and library callers get silence unless they opt in.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger replaces the shared logger. Passing nil restores silence.
//
// Levels used:
//   - Debug: per-path progress
//   - Info: run summaries, layer lookups
//   - Warn: curve approximations, degenerate or skipped paths, large overlaps
//   - Error: paths dropped because of unsupported commands
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current shared logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
