package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"vantage.org/internal/auth"
	"vantage.org/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithAuth(ctx, auth.AuthContext{User: "DOMAIN\\alice", Groups: []string{"BI-Viewers"}})

	if err := LogEvent(ctx, "QUERY_EXECUTE", map[string]any{"endpointId": "ep_sales_summary"}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "QUERY_EXECUTE" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["user"] != "DOMAIN\\alice" {
		t.Fatalf("unexpected user: %v", entry["user"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["endpointId"] != "ep_sales_summary" {
		t.Fatalf("fields missing or incorrect: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank event name")
	}
}

func TestLineRecorderImplementsRecorder(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	var rec Recorder = LineRecorder{}
	if err := rec.Record(context.Background(), "EMBED_TOKEN_ISSUED", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected audit line")
	}
}
