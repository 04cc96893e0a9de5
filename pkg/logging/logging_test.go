package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerDiscards(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger should be disabled")
	}
}

func TestNewNonTerminalUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("cycle", "frame", 3)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output for non-terminal writer, got %q", buf.String())
	}
}

func TestNewForcedText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: FormatText}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("started")
	if !strings.Contains(buf.String(), "msg=started") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
