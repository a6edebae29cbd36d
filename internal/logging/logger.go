// Package logging defines the structured-logging interface used across
// propkeeper, a slog-backed implementation, and redaction helpers for
// values that must never reach a log line.
package logging

import "context"

// Logger is what every propkeeper component logs through. Arguments after
// msg are alternating keys and values:
//
//	logger.Warn(ctx, "token refresh rejected", "status", 401)
//
// Tokens and passwords are passed through RedactToken/RedactPassword, never
// as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every record of the returned logger.
	With(args ...any) Logger
}
