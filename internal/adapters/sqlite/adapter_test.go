package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

var (
	_ ports.SmartLinkStore  = (*Adapter)(nil)
	_ ports.DraftStore      = (*Adapter)(nil)
	_ ports.PreferenceStore = (*Adapter)(nil)
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func testLink(id, owner, slug string, created int64) domain.SmartLink {
	return domain.SmartLink{
		ID:          id,
		OwnerID:     owner,
		ReleaseName: "Lost in Tokyo",
		ArtistName:  "Nova",
		Platforms: []domain.PlatformLink{
			{Name: "Spotify", URL: "https://open.spotify.com/album/x"},
			{Name: "VK Музыка", URL: "https://vk.com/music/x"},
		},
		Slug:      slug,
		CreatedAt: time.UnixMilli(created).UTC(),
	}
}

func TestAdapter_SmartLinks(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	first := testLink("l1", "u1", "lost-in-tokyo-1718000000000", 1718000000000)
	second := testLink("l2", "u1", "lost-in-tokyo-1718000009000", 1718000009000)
	other := testLink("l3", "u2", "other-1718000000000", 1718000000000)
	for _, l := range []domain.SmartLink{first, second, other} {
		if err := a.Append(ctx, l); err != nil {
			t.Fatalf("append %s: %v", l.ID, err)
		}
	}

	got, err := a.FindBySlug(ctx, first.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got.ID != "l1" || !got.CreatedAt.Equal(first.CreatedAt) || len(got.Platforms) != 2 || got.Platforms[1].Name != "VK Музыка" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	list, err := a.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].ID != "l2" {
		t.Errorf("list should be newest first and owner-scoped: %+v", list)
	}

	if err := a.SetDeleted(ctx, "l1", true); err != nil {
		t.Fatalf("SetDeleted: %v", err)
	}
	if got, _ := a.FindByID(ctx, "l1"); !got.Deleted {
		t.Errorf("deleted flag not stored")
	}
	if err := a.Delete(ctx, "l1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := a.FindByID(ctx, "l1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID after delete: got %v", err)
	}
}

func TestAdapter_SmartLinkErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		run     func(a *Adapter) error
		wantErr error
	}{
		{
			name: "duplicate slug",
			run: func(a *Adapter) error {
				if err := a.Append(ctx, testLink("l1", "u1", "same", 1)); err != nil {
					t.Fatalf("append: %v", err)
				}
				return a.Append(ctx, testLink("l2", "u1", "same", 2))
			},
			wantErr: domain.ErrSlugTaken,
		},
		{
			name: "unknown slug",
			run: func(a *Adapter) error {
				_, err := a.FindBySlug(ctx, "missing")
				return err
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "set deleted on missing id",
			run:     func(a *Adapter) error { return a.SetDeleted(ctx, "missing", true) },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "delete missing id",
			run:     func(a *Adapter) error { return a.Delete(ctx, "missing") },
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(newTestAdapter(t)); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAdapter_Drafts(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	if _, err := a.LoadDraft(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty store: got %v", err)
	}

	r, err := domain.NewRelease("r1", "u1", "Midnight Dreams", domain.GenrePop, "t1", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	r.Tracks[0].Title = "Intro"
	r.Tracks[0].AddFeaturedArtist("Echo")
	if err := a.SaveDraft(ctx, *r); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	r.Title = "Midnight Dreams (Deluxe)"
	if err := a.SaveDraft(ctx, *r); err != nil {
		t.Fatalf("SaveDraft overwrite: %v", err)
	}

	got, err := a.LoadDraft(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got.ID != "r1" || got.Title != "Midnight Dreams (Deluxe)" || got.Status != domain.StatusDraft {
		t.Errorf("draft: %+v", got)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].Title != "Intro" || got.Tracks[0].FeaturedArtists[0] != "Echo" {
		t.Errorf("tracks: %+v", got.Tracks)
	}

	if err := a.ClearDraft(ctx, "u1"); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	if _, err := a.LoadDraft(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("after clear: got %v", err)
	}
}

func TestAdapter_Theme(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	if _, err := a.Theme(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unset theme: got %v", err)
	}
	for _, theme := range []domain.Theme{domain.ThemeDark, domain.ThemeLight} {
		if err := a.SetTheme(ctx, "u1", theme); err != nil {
			t.Fatalf("SetTheme: %v", err)
		}
		got, err := a.Theme(ctx, "u1")
		if err != nil || got != theme {
			t.Fatalf("Theme: got %q, %v, want %q", got, err, theme)
		}
	}
}
