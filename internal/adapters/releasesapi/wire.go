package releasesapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/olprod/backend/internal/core/domain"
)

// Status labels used by the releases backend.
const (
	labelDraft        = "Черновик"
	labelOnModeration = "На проверке"
	labelPublished    = "Опубликован"
	labelDeleted      = "Удалён"
)

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusOnModeration:
		return labelOnModeration
	case domain.StatusPublished:
		return labelPublished
	default:
		return labelDraft
	}
}

// parseStatus maps a backend label. The deleted label carries no prior
// status, so it comes back as an empty Status with deleted set.
func parseStatus(label string) (status domain.Status, deleted bool) {
	switch strings.TrimSpace(label) {
	case labelDeleted:
		return "", true
	case labelOnModeration, string(domain.StatusOnModeration):
		return domain.StatusOnModeration, false
	case labelPublished, string(domain.StatusPublished):
		return domain.StatusPublished, false
	default:
		return domain.StatusDraft, false
	}
}

// flexID accepts both numeric and string identifiers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

type wireRelease struct {
	ID           flexID  `json:"id"`
	Title        string  `json:"title"`
	Genre        string  `json:"genre"`
	ReleaseDate  *string `json:"releaseDate"`
	MusicAuthor  *string `json:"musicAuthor"`
	LyricsAuthor *string `json:"lyricsAuthor"`
	AudioURL     *string `json:"audioUrl"`
	CoverURL     *string `json:"coverUrl"`
	Status       string  `json:"status"`
	Streams      int64   `json:"streams"`
	Revenue      float64 `json:"revenue"`
	CreatedAt    *string `json:"createdAt"`
}

type listResponse struct {
	Releases []wireRelease `json:"releases"`
	Error    string        `json:"error,omitempty"`
}

type createRequest struct {
	UserID       string `json:"userId"`
	Title        string `json:"title"`
	Genre        string `json:"genre"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
	MusicAuthor  string `json:"musicAuthor,omitempty"`
	LyricsAuthor string `json:"lyricsAuthor,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	CoverURL     string `json:"coverUrl,omitempty"`
	UPC          string `json:"upc,omitempty"`
}

type createResponse struct {
	Success bool         `json:"success"`
	Release *wireRelease `json:"release,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type updateRequest struct {
	ReleaseID    string `json:"releaseId"`
	UserID       string `json:"userId"`
	Title        string `json:"title,omitempty"`
	Genre        string `json:"genre,omitempty"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
	MusicAuthor  string `json:"musicAuthor,omitempty"`
	LyricsAuthor string `json:"lyricsAuthor,omitempty"`
	CoverURL     string `json:"coverUrl,omitempty"`
	UPC          string `json:"upc,omitempty"`
	Status       string `json:"status,omitempty"`
	Restore      bool   `json:"restore,omitempty"`
}

type deleteRequest struct {
	ReleaseID string `json:"releaseId"`
	UserID    string `json:"userId"`
	Permanent bool   `json:"permanent,omitempty"`
}

type ackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (w wireRelease) snapshot() domain.ReleaseSnapshot {
	status, deleted := parseStatus(w.Status)
	return domain.ReleaseSnapshot{
		RemoteID:     string(w.ID),
		Title:        w.Title,
		Genre:        w.Genre,
		ReleaseDate:  parseDate(w.ReleaseDate),
		MusicAuthor:  deref(w.MusicAuthor),
		LyricsAuthor: deref(w.LyricsAuthor),
		AudioURL:     deref(w.AudioURL),
		CoverURL:     deref(w.CoverURL),
		Status:       status,
		Deleted:      deleted,
		Streams:      w.Streams,
		Revenue:      w.Revenue,
		CreatedAt:    timeOrZero(parseDate(w.CreatedAt)),
	}
}

func newCreateRequest(userID string, r domain.Release) createRequest {
	req := createRequest{
		UserID: userID,
		Title:  r.Title,
		Genre:  string(r.Genre),
		UPC:    r.UPC,
	}
	if r.ReleaseDate != nil {
		req.ReleaseDate = r.ReleaseDate.Format(time.DateOnly)
	}
	if len(r.Tracks) > 0 {
		req.MusicAuthor = r.Tracks[0].MusicAuthor
		req.LyricsAuthor = r.Tracks[0].LyricsAuthor
	}
	if r.Cover != nil {
		req.CoverURL = r.Cover.URL
		if req.CoverURL == "" {
			req.CoverURL = r.Cover.DataURL
		}
	}
	return req
}

// newUpdateRequest carries the same metadata as a create, addressed by
// remote ID.
func newUpdateRequest(userID string, r domain.Release) updateRequest {
	c := newCreateRequest(userID, r)
	return updateRequest{
		ReleaseID:    r.RemoteID,
		UserID:       userID,
		Title:        c.Title,
		Genre:        c.Genre,
		ReleaseDate:  c.ReleaseDate,
		MusicAuthor:  c.MusicAuthor,
		LyricsAuthor: c.LyricsAuthor,
		CoverURL:     c.CoverURL,
		UPC:          c.UPC,
	}
}

// parseDate accepts ISO dates with or without a time part.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", time.DateOnly} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	if ms, err := strconv.ParseInt(*s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
