package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerUsesTextHandlerWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})
	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}
	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerJSONIncludesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "JSON", Level: "debug", Service: "rank-kicker", Version: "v1", Output: &buf})
	logger.Debug("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if line[FieldService] != "rank-kicker" || line[FieldVersion] != "v1" {
		t.Fatalf("expected common fields, got %+v", line)
	}
}

func TestParseLevelVariants(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, expected := range cases {
		if got := parseLevel(input); got != expected {
			t.Fatalf("level %q expected %s, got %s", input, expected, got)
		}
	}
}

func TestFromContextFallsBack(t *testing.T) {
	fallback := NewLogger(Config{})
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger when none stored")
	}

	var buf bytes.Buffer
	scoped := NewLogger(Config{Output: &buf})
	ctx := WithLogger(context.Background(), scoped)
	FromContext(ctx, fallback).Info("scoped")
	if !strings.Contains(buf.String(), "scoped") {
		t.Fatalf("expected scoped logger to be used, got %q", buf.String())
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Debug(nil, "x")
	Info(nil, "x")
	Warn(nil, "x")
	Error(nil, "x", nil)
}
