package domain

import (
	"sort"
	"time"
)

// Totals aggregates the non-deleted releases of a catalog.
type Totals struct {
	Streams      int64   `json:"streams"`
	Revenue      float64 `json:"revenue"`
	Active       int     `json:"active"`
	Published    int     `json:"published"`
	OnModeration int     `json:"onModeration"`
	Drafts       int     `json:"drafts"`
}

// ReleaseSnapshot is one release as reported by the remote releases backend.
// Streams and revenue are only ever supplied from here.
type ReleaseSnapshot struct {
	RemoteID     string
	Title        string
	Genre        string
	ReleaseDate  *time.Time
	MusicAuthor  string
	LyricsAuthor string
	AudioURL     string
	CoverURL     string
	Status       Status
	Deleted      bool
	Streams      int64
	Revenue      float64
	CreatedAt    time.Time
}

// Catalog is the set of releases owned by one artist.
type Catalog struct {
	releases []*Release
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Add(r *Release) {
	c.releases = append(c.releases, r)
}

func (c *Catalog) Find(id string) (*Release, error) {
	for _, r := range c.releases {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (c *Catalog) FindRemote(remoteID string) *Release {
	if remoteID == "" {
		return nil
	}
	for _, r := range c.releases {
		if r.RemoteID == remoteID {
			return r
		}
	}
	return nil
}

func (c *Catalog) Remove(id string) bool {
	for i, r := range c.releases {
		if r.ID == id {
			c.releases = append(c.releases[:i], c.releases[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns copies of the non-deleted releases, newest first.
func (c *Catalog) Active() []Release {
	return c.filter(false)
}

// Deleted returns copies of the soft-deleted releases, newest first.
func (c *Catalog) Deleted() []Release {
	return c.filter(true)
}

func (c *Catalog) filter(deleted bool) []Release {
	out := make([]Release, 0, len(c.releases))
	for _, r := range c.releases {
		if r.Deleted == deleted {
			out = append(out, r.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (c *Catalog) Totals() Totals {
	var t Totals
	for _, r := range c.releases {
		if r.Deleted {
			continue
		}
		t.Active++
		t.Streams += r.Streams
		t.Revenue += r.Revenue
		switch r.Status {
		case StatusPublished:
			t.Published++
		case StatusOnModeration:
			t.OnModeration++
		case StatusDraft:
			t.Drafts++
		}
	}
	return t
}

// Merge applies a remote snapshot. Known releases take status, deletion,
// streams and revenue from the snapshot; unknown ones are added through
// build; releases that carry a remote ID absent from the snapshot were
// purged elsewhere and are dropped. Local-only drafts are untouched.
func (c *Catalog) Merge(snaps []ReleaseSnapshot, build func(ReleaseSnapshot) *Release) {
	seen := make(map[string]bool, len(snaps))
	for _, s := range snaps {
		seen[s.RemoteID] = true
		if r := c.FindRemote(s.RemoteID); r != nil {
			if s.Status.Valid() {
				r.Status = s.Status
			}
			r.Deleted = s.Deleted
			r.Streams = s.Streams
			r.Revenue = s.Revenue
			continue
		}
		if r := build(s); r != nil {
			c.Add(r)
		}
	}
	kept := c.releases[:0]
	for _, r := range c.releases {
		if r.RemoteID != "" && !seen[r.RemoteID] {
			continue
		}
		kept = append(kept, r)
	}
	c.releases = kept
}
