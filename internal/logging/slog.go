package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewTextLogger is the CLI logger: text records on w, debug only when
// verbose. Credential-looking keys are masked.
func NewTextLogger(w io.Writer, verbose bool) *SlogLogger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: maskCredentials}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger is the server logger: one JSON object per record on w.
func NewJSONLogger(w io.Writer) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{ReplaceAttr: maskCredentials})))
}

// Discard drops every record.
func Discard() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// maskCredentials replaces the value of attributes whose key names a token
// or a password, whatever the caller passed.
func maskCredentials(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "access", "refresh", "token", "access_token", "refresh_token", "authorization":
		return slog.String(a.Key, RedactToken())
	case "password":
		return slog.String(a.Key, RedactPassword())
	}
	return a
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
