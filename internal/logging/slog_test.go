package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "pipeline", "request_id", "123").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "component=pipeline", "request_id=123", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNewTextLogger_VerboseControlsDebug(t *testing.T) {
	var quiet, loud bytes.Buffer

	NewTextLogger(&quiet, false).Debug(context.Background(), "hidden")
	NewTextLogger(&loud, true).Debug(context.Background(), "shown")

	if quiet.Len() != 0 {
		t.Fatalf("debug must be dropped when not verbose, got:\n%s", quiet.String())
	}
	if !strings.Contains(loud.String(), "msg=shown") {
		t.Fatalf("debug must be written when verbose, got:\n%s", loud.String())
	}
}

func TestNewJSONLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf).Info(context.Background(), "started", "addr", ":8000")

	out := buf.String()
	if !strings.Contains(out, `"msg":"started"`) || !strings.Contains(out, `"addr":":8000"`) {
		t.Fatalf("unexpected JSON output: %s", out)
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	log.With("k", "v").Info(ctx, "x")
}

func TestMaskCredentials(t *testing.T) {
	var text, js bytes.Buffer
	ctx := context.Background()

	NewTextLogger(&text, false).Info(ctx, "login", "username", "demo", "password", "demo1234", "access", "eyJhbGciOi")
	NewJSONLogger(&js).With("refresh_token", "eyJyZWZyZXNo").Info(ctx, "rotated", "Authorization", "Bearer eyJ")

	for _, leaked := range []string{"demo1234", "eyJhbGciOi", "eyJyZWZyZXNo", "Bearer eyJ"} {
		if strings.Contains(text.String()+js.String(), leaked) {
			t.Fatalf("%q leaked into logs:\n%s%s", leaked, text.String(), js.String())
		}
	}
	if !strings.Contains(text.String(), "password="+RedactPassword()) || !strings.Contains(text.String(), "username=demo") {
		t.Fatalf("unexpected text output: %s", text.String())
	}
	if !strings.Contains(js.String(), `"refresh_token":"`+RedactToken()+`"`) {
		t.Fatalf("unexpected JSON output: %s", js.String())
	}
}
