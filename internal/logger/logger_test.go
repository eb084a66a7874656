package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_RedactsSensitiveDetails(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{ServiceName: "test"}, &buf)

	l.Info(EventLoginSuccess, "login for artist@example.com", Fields(
		"password", "hunter2",
		"email", "artist@example.com",
		"error", errors.New("boom"),
		"count", 3,
	))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Level != LevelInfo || entry.EventType != EventLoginSuccess || entry.Service != "test" {
		t.Fatalf("unexpected envelope: %+v", entry)
	}
	if strings.Contains(entry.Message, "artist@example.com") {
		t.Fatalf("email not masked in message: %q", entry.Message)
	}
	if entry.Details["password"] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", entry.Details["password"])
	}
	if entry.Details["email"] != "ar***@example.com" {
		t.Fatalf("email detail: got %v", entry.Details["email"])
	}
	if entry.Details["error"] != "boom" {
		t.Fatalf("error detail: got %v", entry.Details["error"])
	}
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"ab@x.io":      "**@x.io",
		"artist@x.io":  "ar***@x.io",
		"not-an-email": "[REDACTED_EMAIL]",
	}
	for in, want := range tests {
		if got := maskEmail(in); got != want {
			t.Errorf("maskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
