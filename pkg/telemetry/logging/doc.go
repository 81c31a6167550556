// Package logging provides structured logger construction for the control
// plane, built on log/slog.
//
// The logger supports json and text output formats and the standard slog
// levels. Components receive a *slog.Logger at construction and derive
// per-component loggers with With.
package logging
