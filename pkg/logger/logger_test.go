package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Info(context.Background(), "region fetched", Int("region", 12), String("name", "Baranya"))

	out := buf.String()
	if !strings.Contains(out, "region fetched") {
		t.Fatalf("missing message in %q", out)
	}
	if !strings.Contains(out, "region=12") {
		t.Fatalf("missing field in %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Fatalf("missing caller in %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithFormat(FormatJSON)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().With(String("run_id", "abc")).Warn(context.Background(), "region missing", Int("region", 30))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "region missing" || rec["run_id"] != "abc" || rec["level"] != "WARN" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	Get().Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %q", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Debug(context.Background(), "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug not written at debug level: %q", buf.String())
	}

	if err := SetLevelString("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("fetch")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message", String("k", "v"))
	if !strings.Contains(buf.String(), "fetch.k=v") {
		t.Fatalf("group prefix missing in %q", buf.String())
	}
}
