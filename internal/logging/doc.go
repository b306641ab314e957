// Package logging assembles the structured slog loggers used by fcpbridge.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr plus an optional log file), and exposes a no-op logger for tests and
// library callers that do not care about diagnostics. Components tag their
// lines through NewComponentLogger so reader, writer, and media output can be
// told apart.
package logging
