package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fcpbridge/internal/config"
)

func TestConsoleHandlerIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = NewComponentLogger(logger, "fcp7.writer")
	logger.Info("wrote document", slog.String(FieldPath, "/tmp/out file.xml"), slog.Int("clips", 3))

	line := buf.String()
	if !strings.Contains(line, " INFO fcp7.writer: wrote document") {
		t.Fatalf("missing component prefix: %q", line)
	}
	if !strings.Contains(line, `path="/tmp/out file.xml"`) {
		t.Fatalf("expected quoted path: %q", line)
	}
	if !strings.Contains(line, "clips=3") {
		t.Fatalf("missing clip count: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only: %q", line)
	}
}

func TestConsoleHandlerFlattensGroupsAndBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = logger.With(slog.String(FieldSource, "0")).WithGroup("stream")
	logger.Info("extracted", slog.Int("index", 2), slog.Group("wav", slog.String("name", "")))

	line := buf.String()
	for _, want := range []string{" INFO extracted", "source_id=0", "stream.index=2", `stream.wav.name=""`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("dropped track", slog.Int(FieldTrack, 2))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if payload["level"] != "warn" || payload["msg"] != "dropped track" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts: %v", payload)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	logger.Error("shown", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("expected error attr, got %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	WarnWithContext(logger, "extra video track ignored", "video_track_dropped", slog.String(FieldImpact, "track 2 omitted"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[FieldEventType] != "video_track_dropped" {
		t.Fatalf("event type = %v", payload[FieldEventType])
	}
	if payload[FieldImpact] != "track 2 omitted" {
		t.Fatalf("impact overwritten: %v", payload[FieldImpact])
	}
	if payload[FieldErrorHint] == nil {
		t.Fatal("missing error hint default")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"
	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewComponentLogger(nil, "media")
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
