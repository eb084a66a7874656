package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Reply(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		want         string
		wantErr      bool
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"  Загрузите трек в формате WAV. "}}`,
			want:         "Загрузите трек в формате WAV.",
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      true,
		},
		{
			name:         "Error in body",
			status:       http.StatusOK,
			responseBody: `{"error":"model not found"}`,
			wantErr:      true,
		},
		{
			name:         "Empty content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"   "}}`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-model")
			got, err := client.Reply(context.Background(), "Какой формат аудио?")

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Fatalf("reply: got %q, want %q", got, tt.want)
			}
			if gotRequest.Model != "test-model" {
				t.Fatalf("expected model test-model, got %q", gotRequest.Model)
			}
			if gotRequest.Options.NumPredict != maxReplyTokens || gotRequest.Options.Temperature != temperature {
				t.Fatalf("options mismatch: %+v", gotRequest.Options)
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[0].Content != systemPrompt {
				t.Fatalf("system prompt mismatch")
			}
			if gotRequest.Messages[1].Role != "user" || gotRequest.Messages[1].Content != "Какой формат аудио?" {
				t.Fatalf("user message mismatch")
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "")
	if c.baseURL != defaultBaseURL || c.model != defaultModel {
		t.Fatalf("defaults: %q %q", c.baseURL, c.model)
	}
	if c := NewClient("http://ollama:11434/", "m"); c.baseURL != "http://ollama:11434" {
		t.Fatalf("trailing slash kept: %q", c.baseURL)
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "").Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
