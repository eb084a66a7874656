package domain

import (
	"errors"
	"testing"
	"time"
)

func newDraft(t *testing.T) *Release {
	t.Helper()
	r, err := NewRelease("r1", "u1", "Midnight Dreams", GenrePop, "t1", time.Unix(100, 0))
	if err != nil {
		t.Fatalf("failed to create release: %v", err)
	}
	return r
}

func TestNewRelease(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		genre   Genre
		wantErr error
	}{
		{name: "creates draft with one track", title: "Midnight Dreams", genre: GenrePop},
		{name: "rejects blank title", title: "   ", genre: GenrePop, wantErr: ErrMissingTitle},
		{name: "rejects missing genre", title: "Midnight Dreams", genre: "", wantErr: ErrMissingGenre},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRelease("r1", "u1", tc.title, tc.genre, "t1", time.Now())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != StatusDraft {
				t.Fatalf("status: got %q, want %q", r.Status, StatusDraft)
			}
			if len(r.Tracks) != 1 || r.Tracks[0].ID != "t1" {
				t.Fatalf("expected one empty track, got %+v", r.Tracks)
			}
		})
	}
}

func TestRelease_RemoveTrack(t *testing.T) {
	r := newDraft(t)
	if err := r.AddTrack(NewTrack("t2")); err != nil {
		t.Fatalf("add track: %v", err)
	}

	if err := r.RemoveTrack("t1"); err != nil {
		t.Fatalf("remove first track: %v", err)
	}
	if err := r.RemoveTrack("t2"); !errors.Is(err, ErrMinimumOneTrack) {
		t.Fatalf("expected ErrMinimumOneTrack, got %v", err)
	}
	if len(r.Tracks) != 1 {
		t.Fatalf("track count: got %d, want 1", len(r.Tracks))
	}
	if err := r.RemoveTrack("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRelease_UpdateTrack(t *testing.T) {
	r := newDraft(t)
	title := "Intro"
	isrc := " ru-abc-24-00001 "
	explicit := true

	got, err := r.UpdateTrack("t1", TrackPatch{
		Title:           &title,
		ISRC:            &isrc,
		Explicit:        &explicit,
		FeaturedArtists: []string{"Mira", "Mira"},
	})
	if err != nil {
		t.Fatalf("update track: %v", err)
	}
	if got.Title != "Intro" || got.ISRC != "RU-ABC-24-00001" || !got.Explicit {
		t.Fatalf("patch not applied: %+v", got)
	}
	if len(got.FeaturedArtists) != 2 {
		t.Fatalf("duplicates must be kept, got %v", got.FeaturedArtists)
	}

	got.FeaturedArtists[0] = "changed"
	if r.Tracks[0].FeaturedArtists[0] != "Mira" {
		t.Fatalf("returned track shares storage with the release")
	}
}

func TestRelease_AttachAudio(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{name: "rejects mp3", file: "track.mp3", wantErr: ErrInvalidAudioFormat},
		{name: "accepts upper-case extension", file: "track.WAV"},
		{name: "accepts lower-case extension", file: "take-2.wav"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newDraft(t)
			err := r.AttachAudio("t1", AudioFile{Name: tc.file, Size: 10})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				if r.Tracks[0].Audio != nil {
					t.Fatalf("audio bound despite rejection")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Tracks[0].Audio == nil || r.Tracks[0].Audio.Name != tc.file {
				t.Fatalf("audio not bound: %+v", r.Tracks[0].Audio)
			}
		})
	}
}

func TestRelease_Lifecycle(t *testing.T) {
	r := newDraft(t)

	if err := r.Submit(); !errors.Is(err, ErrCoverRequired) {
		t.Fatalf("expected ErrCoverRequired, got %v", err)
	}
	if err := r.AttachCover(Cover{Width: 3000, Height: 3000}); err != nil {
		t.Fatalf("attach cover: %v", err)
	}
	if err := r.Submit(); !errors.Is(err, ErrTrackTitleRequired) {
		t.Fatalf("expected ErrTrackTitleRequired, got %v", err)
	}
	r.Tracks[0].Title = "Intro"
	if err := r.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Status != StatusOnModeration {
		t.Fatalf("status: got %q", r.Status)
	}
	if err := r.AddTrack(NewTrack("t2")); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable after submission, got %v", err)
	}
	if err := r.Submit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on resubmit, got %v", err)
	}

	if err := r.CanPurge(); !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("purge must require soft delete, got %v", err)
	}
	if err := r.SoftDelete(); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := r.SoftDelete(); !errors.Is(err, ErrAlreadyDeleted) {
		t.Fatalf("expected ErrAlreadyDeleted, got %v", err)
	}
	if err := r.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if r.Status != StatusOnModeration || r.Deleted {
		t.Fatalf("restore must return to prior status, got %q deleted=%v", r.Status, r.Deleted)
	}
}

func TestCatalog_TotalsSkipDeleted(t *testing.T) {
	c := NewCatalog()
	published := &Release{ID: "a", Status: StatusPublished, Streams: 12450, Revenue: 1890, CreatedAt: time.Unix(1, 0)}
	moderated := &Release{ID: "b", Status: StatusOnModeration, CreatedAt: time.Unix(2, 0)}
	deleted := &Release{ID: "c", Status: StatusPublished, Streams: 500, Revenue: 75, Deleted: true, CreatedAt: time.Unix(3, 0)}
	c.Add(published)
	c.Add(moderated)
	c.Add(deleted)

	got := c.Totals()
	want := Totals{Streams: 12450, Revenue: 1890, Active: 2, Published: 1, OnModeration: 1}
	if got != want {
		t.Fatalf("totals: got %+v, want %+v", got, want)
	}

	active := c.Active()
	if len(active) != 2 || active[0].ID != "b" {
		t.Fatalf("active releases newest first: got %+v", active)
	}
	if trash := c.Deleted(); len(trash) != 1 || trash[0].ID != "c" {
		t.Fatalf("deleted releases: got %+v", trash)
	}
}

func TestCatalog_Merge(t *testing.T) {
	c := NewCatalog()
	c.Add(&Release{ID: "known", RemoteID: "7", Status: StatusOnModeration})
	c.Add(&Release{ID: "gone", RemoteID: "8", Status: StatusPublished})
	c.Add(&Release{ID: "local", Status: StatusDraft})

	c.Merge([]ReleaseSnapshot{
		{RemoteID: "7", Status: StatusPublished, Streams: 10, Revenue: 2.5},
		{RemoteID: "9", Title: "Summer Vibes EP", Status: StatusDraft},
	}, func(s ReleaseSnapshot) *Release {
		return &Release{ID: "new-" + s.RemoteID, RemoteID: s.RemoteID, Status: s.Status}
	})

	known, err := c.Find("known")
	if err != nil {
		t.Fatalf("find known: %v", err)
	}
	if known.Status != StatusPublished || known.Streams != 10 {
		t.Fatalf("snapshot not applied: %+v", known)
	}
	if _, err := c.Find("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("release purged remotely should be dropped")
	}
	if _, err := c.Find("local"); err != nil {
		t.Fatalf("local draft must survive merge: %v", err)
	}
	if _, err := c.Find("new-9"); err != nil {
		t.Fatalf("unknown remote release should be added: %v", err)
	}
}
