package releasesapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

var _ ports.ReleasesAPI = (*Client)(nil)

type recorded struct {
	Method string
	Query  string
	Body   map[string]any
}

func newTestServer(t *testing.T, status int, response string, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Method = r.Method
		got.Query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &got.Body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_List(t *testing.T) {
	var got recorded
	srv := newTestServer(t, http.StatusOK, `{"releases":[
		{"id":12,"title":"Neon","genre":"Electronic","releaseDate":"2024-05-01","musicAuthor":"Nova","lyricsAuthor":null,"audioUrl":"https://cdn/x/neon.wav","coverUrl":"https://cdn/x/neon.jpg","status":"Опубликован","streams":1200,"revenue":15.5},
		{"id":"13","title":"Old","genre":"Rock","releaseDate":null,"status":"Удалён","streams":0,"revenue":0},
		{"id":14,"title":"Next","genre":"Pop","status":"На проверке","streams":0,"revenue":0}
	]}`, &got)

	snaps, err := NewClient(srv.Client(), srv.URL).List(context.Background(), "u 1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got.Method != http.MethodGet || got.Query != "userId=u+1" {
		t.Errorf("request: %s ?%s", got.Method, got.Query)
	}
	if len(snaps) != 3 {
		t.Fatalf("snapshots: %d", len(snaps))
	}

	neon := snaps[0]
	if neon.RemoteID != "12" || neon.Status != domain.StatusPublished || neon.Deleted || neon.Streams != 1200 || neon.Revenue != 15.5 {
		t.Errorf("neon: %+v", neon)
	}
	if neon.ReleaseDate == nil || !neon.ReleaseDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("release date: %v", neon.ReleaseDate)
	}
	if neon.MusicAuthor != "Nova" || neon.LyricsAuthor != "" || neon.CoverURL != "https://cdn/x/neon.jpg" {
		t.Errorf("neon metadata: %+v", neon)
	}
	if old := snaps[1]; old.RemoteID != "13" || !old.Deleted || old.ReleaseDate != nil {
		t.Errorf("old: %+v", old)
	}
	if snaps[2].Status != domain.StatusOnModeration {
		t.Errorf("next status: %q", snaps[2].Status)
	}
}

func TestClient_Create(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	r := domain.Release{
		Title:       "Midnight Dreams",
		Genre:       domain.GenrePop,
		ReleaseDate: &date,
		Tracks:      []domain.Track{{Title: "Intro", MusicAuthor: "Nova", LyricsAuthor: "Echo"}},
		Cover:       &domain.Cover{DataURL: "data:image/png;base64,AAA"},
	}

	tests := []struct {
		name     string
		status   int
		response string
		wantID   string
		wantErr  bool
	}{
		{"success", http.StatusOK, `{"success":true,"release":{"id":77,"title":"Midnight Dreams","status":"Черновик"}}`, "77", false},
		{"validation error", http.StatusBadRequest, `{"error":"Заполните все обязательные поля"}`, "", true},
		{"success without id", http.StatusOK, `{"success":true}`, "", true},
		{"server error", http.StatusInternalServerError, `oops`, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got recorded
			srv := newTestServer(t, tc.status, tc.response, &got)

			id, err := NewClient(srv.Client(), srv.URL).Create(context.Background(), "u1", r)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected err=%v, got %v", tc.wantErr, err)
			}
			if tc.wantErr {
				if !errors.Is(err, ports.ErrRemoteUnavailable) {
					t.Errorf("error should be a remote error: %v", err)
				}
				return
			}
			if id != tc.wantID {
				t.Errorf("id: got %q, want %q", id, tc.wantID)
			}
			if got.Method != http.MethodPost {
				t.Errorf("method: %s", got.Method)
			}
			want := map[string]any{
				"userId":       "u1",
				"title":        "Midnight Dreams",
				"genre":        "Pop",
				"releaseDate":  "2024-07-01",
				"musicAuthor":  "Nova",
				"lyricsAuthor": "Echo",
				"coverUrl":     "data:image/png;base64,AAA",
			}
			for k, v := range want {
				if got.Body[k] != v {
					t.Errorf("body[%s]: got %v, want %v", k, got.Body[k], v)
				}
			}
		})
	}
}

func TestClient_StatusCalls(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantBody   map[string]any
	}{
		{
			name:       "submit",
			call:       func(c *Client) error { return c.SetStatus(ctx, "u1", "77", domain.StatusOnModeration) },
			wantMethod: http.MethodPut,
			wantBody:   map[string]any{"releaseId": "77", "userId": "u1", "status": "На проверке"},
		},
		{
			name: "update metadata",
			call: func(c *Client) error {
				return c.Update(ctx, "u1", domain.Release{RemoteID: "77", Title: "Neon Nights", Genre: domain.GenreElectronic})
			},
			wantMethod: http.MethodPut,
			wantBody:   map[string]any{"releaseId": "77", "userId": "u1", "title": "Neon Nights", "genre": "Electronic"},
		},
		{
			name:       "restore",
			call:       func(c *Client) error { return c.Restore(ctx, "u1", "77", domain.StatusPublished) },
			wantMethod: http.MethodPut,
			wantBody:   map[string]any{"releaseId": "77", "status": "Опубликован", "restore": true},
		},
		{
			name:       "soft delete",
			call:       func(c *Client) error { return c.Delete(ctx, "u1", "77", false) },
			wantMethod: http.MethodDelete,
			wantBody:   map[string]any{"releaseId": "77", "userId": "u1"},
		},
		{
			name:       "purge",
			call:       func(c *Client) error { return c.Delete(ctx, "u1", "77", true) },
			wantMethod: http.MethodDelete,
			wantBody:   map[string]any{"releaseId": "77", "permanent": true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got recorded
			srv := newTestServer(t, http.StatusOK, `{"success":true}`, &got)
			if err := tc.call(NewClient(srv.Client(), srv.URL)); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got.Method != tc.wantMethod {
				t.Errorf("method: got %s, want %s", got.Method, tc.wantMethod)
			}
			for k, v := range tc.wantBody {
				if got.Body[k] != v {
					t.Errorf("body[%s]: got %v, want %v", k, got.Body[k], v)
				}
			}
		})
	}
}

func TestClient_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		var got recorded
		srv := newTestServer(t, http.StatusNotFound, `{"error":"Release not found"}`, &got)
		err := NewClient(srv.Client(), srv.URL).SetStatus(ctx, "u1", "1", domain.StatusOnModeration)
		if !errors.Is(err, ports.ErrRemoteUnavailable) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("success false", func(t *testing.T) {
		var got recorded
		srv := newTestServer(t, http.StatusOK, `{"success":false,"error":"nope"}`, &got)
		err := NewClient(srv.Client(), srv.URL).Delete(ctx, "u1", "1", false)
		if !errors.Is(err, ports.ErrRemoteUnavailable) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		var got recorded
		srv := newTestServer(t, http.StatusOK, `{}`, &got)
		c := NewClient(srv.Client(), srv.URL)
		srv.Close()
		_, err := c.List(ctx, "u1")
		var remoteErr *ports.RemoteError
		if !errors.As(err, &remoteErr) || remoteErr.Op != "list" {
			t.Fatalf("got %v", err)
		}
	})
}

func TestFlexID(t *testing.T) {
	tests := map[string]string{`12`: "12", `"ab-1"`: "ab-1", `null`: ""}
	for in, want := range tests {
		var id flexID
		if err := json.Unmarshal([]byte(in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if string(id) != want {
			t.Errorf("%s: got %q, want %q", in, id, want)
		}
	}
}
