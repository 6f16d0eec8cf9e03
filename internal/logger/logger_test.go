package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", true)
	defer Init("info", false)

	ctx := WithRequestID(context.Background(), "req-1")
	WithContext(ctx).Info("hello", "user_id", "u1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["request_id"] != "req-1" {
		t.Fatalf("request_id = %v", rec["request_id"])
	}
	if rec["user_id"] != "u1" {
		t.Fatalf("user_id = %v", rec["user_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", false)
	defer Init("info", false)

	Info("dropped")
	Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestRequestIDEmpty(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}
