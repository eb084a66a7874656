package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PlatformLink is one streaming destination of a smart link.
type PlatformLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SmartLink fans a single shareable slug out to per-platform URLs.
type SmartLink struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	ReleaseName string         `json:"releaseName"`
	ArtistName  string         `json:"artistName"`
	CoverURL    string         `json:"coverUrl,omitempty"`
	Platforms   []PlatformLink `json:"platforms"`
	Slug        string         `json:"slug"`
	Deleted     bool           `json:"deleted"`
	CreatedAt   time.Time      `json:"createdAt"`
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9а-я]+`)

// SlugBase lower-cases a release name and collapses every run of characters
// outside [a-z0-9а-я] into one hyphen. Hyphens at either end are trimmed, so
// the timestamp suffix is always joined by a single hyphen.
func SlugBase(releaseName string) string {
	s := slugSeparators.ReplaceAllString(strings.ToLower(releaseName), "-")
	return strings.Trim(s, "-")
}

// Slug appends the creation timestamp in milliseconds to SlugBase.
func Slug(releaseName string, createdAt time.Time) string {
	ts := strconv.FormatInt(createdAt.UnixMilli(), 10)
	base := SlugBase(releaseName)
	if base == "" {
		return ts
	}
	return base + "-" + ts
}

// FilterPlatforms trims URLs and keeps only platforms with a non-empty one,
// preserving order.
func FilterPlatforms(in []PlatformLink) []PlatformLink {
	out := make([]PlatformLink, 0, len(in))
	for _, p := range in {
		u := strings.TrimSpace(p.URL)
		if u == "" {
			continue
		}
		out = append(out, PlatformLink{Name: strings.TrimSpace(p.Name), URL: u})
	}
	return out
}

func NewSmartLink(id, ownerID, releaseName, artistName, coverURL string, platforms []PlatformLink, now time.Time) (SmartLink, error) {
	releaseName = strings.TrimSpace(releaseName)
	if releaseName == "" {
		return SmartLink{}, ErrMissingName
	}
	kept := FilterPlatforms(platforms)
	if len(kept) == 0 {
		return SmartLink{}, ErrNoLinks
	}
	return SmartLink{
		ID:          id,
		OwnerID:     ownerID,
		ReleaseName: releaseName,
		ArtistName:  strings.TrimSpace(artistName),
		CoverURL:    coverURL,
		Platforms:   kept,
		Slug:        Slug(releaseName, now),
		CreatedAt:   now,
	}, nil
}

func (l *SmartLink) SoftDelete() error {
	if l.Deleted {
		return ErrAlreadyDeleted
	}
	l.Deleted = true
	return nil
}

func (l *SmartLink) Restore() error {
	if !l.Deleted {
		return ErrNotDeleted
	}
	l.Deleted = false
	return nil
}

func (l *SmartLink) CanPurge() error {
	if !l.Deleted {
		return ErrNotDeleted
	}
	return nil
}
