package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
	"github.com/olprod/backend/internal/logger"
)

// DraftInput is what an artist fills in to start a release.
type DraftInput struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
}

// Overview is the dashboard view of a catalog.
type Overview struct {
	Releases []domain.Release `json:"releases"`
	Totals   domain.Totals    `json:"totals"`
}

// session is the in-memory catalog of one artist. Its mutex is held for the
// whole of an operation, remote calls included, so each catalog has a
// single writer at a time.
type session struct {
	mu       sync.Mutex
	catalog  *domain.Catalog
	restored bool
}

// ReleaseManager owns every artist's releases and enforces their lifecycle.
// Remote-visible transitions are confirmed by the releases backend before the
// local catalog changes.
type ReleaseManager struct {
	api    ports.ReleasesAPI
	drafts ports.DraftStore
	covers CoverValidator
	audio  AudioValidator

	newID func() string
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewReleaseManager constructs a ReleaseManager.
func NewReleaseManager(api ports.ReleasesAPI, drafts ports.DraftStore, covers CoverValidator, audio AudioValidator) *ReleaseManager {
	return &ReleaseManager{
		api:      api,
		drafts:   drafts,
		covers:   covers,
		audio:    audio,
		newID:    uuid.NewString,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (m *ReleaseManager) session(userID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{catalog: domain.NewCatalog()}
		m.sessions[userID] = s
	}
	return s
}

// Load refreshes the artist's catalog from the releases backend. The first
// load of a session also brings back the autosaved draft.
func (m *ReleaseManager) Load(ctx context.Context, userID string) (Overview, error) {
	snaps, err := m.api.List(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("service: failed to load releases: %w", err)
	}

	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.restored {
		m.restoreDraft(ctx, userID, s.catalog)
		s.restored = true
	}
	s.catalog.Merge(snaps, func(snap domain.ReleaseSnapshot) *domain.Release {
		return m.fromSnapshot(userID, snap)
	})

	return Overview{Releases: s.catalog.Active(), Totals: s.catalog.Totals()}, nil
}

func (m *ReleaseManager) restoreDraft(ctx context.Context, userID string, c *domain.Catalog) {
	d, err := m.drafts.LoadDraft(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	if err != nil {
		logger.Warn(logger.EventDraftAutosave, "failed to restore draft", logger.Fields("user_id", userID, "error", err))
		return
	}
	if _, err := c.Find(d.ID); err == nil {
		return
	}
	c.Add(&d)
}

// fromSnapshot builds a local release for a remote one this session has not
// seen. The remote payload carries a single track's worth of metadata.
func (m *ReleaseManager) fromSnapshot(userID string, snap domain.ReleaseSnapshot) *domain.Release {
	genre, err := domain.ParseGenre(snap.Genre)
	if err != nil {
		genre = domain.Genre(strings.TrimSpace(snap.Genre))
	}
	status := snap.Status
	if !status.Valid() {
		status = domain.StatusDraft
	}
	created := snap.CreatedAt
	if created.IsZero() {
		created = m.now()
	}

	track := domain.NewTrack(m.newID())
	track.Title = snap.Title
	track.MusicAuthor = snap.MusicAuthor
	track.LyricsAuthor = snap.LyricsAuthor
	if snap.AudioURL != "" {
		track.Audio = &domain.AudioFile{Name: path.Base(snap.AudioURL)}
	}

	r := &domain.Release{
		ID:          m.newID(),
		RemoteID:    snap.RemoteID,
		OwnerID:     userID,
		Title:       snap.Title,
		Genre:       genre,
		ReleaseDate: snap.ReleaseDate,
		Tracks:      []domain.Track{track},
		Status:      status,
		Deleted:     snap.Deleted,
		Streams:     snap.Streams,
		Revenue:     snap.Revenue,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if snap.CoverURL != "" {
		r.Cover = &domain.Cover{URL: snap.CoverURL}
	}
	return r
}

// List returns the active releases, newest first.
func (m *ReleaseManager) List(userID string) []domain.Release {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Active()
}

// Trash returns the soft-deleted releases.
func (m *ReleaseManager) Trash(userID string) []domain.Release {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Deleted()
}

func (m *ReleaseManager) Totals(userID string) domain.Totals {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Totals()
}

func (m *ReleaseManager) Get(userID, releaseID string) (domain.Release, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.catalog.Find(releaseID)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: release %s: %w", releaseID, err)
	}
	return r.Clone(), nil
}

// CreateDraft starts a local Draft with one empty track. Nothing is sent to
// the releases backend until submission.
func (m *ReleaseManager) CreateDraft(ctx context.Context, userID string, in DraftInput) (domain.Release, error) {
	genre, err := domain.ParseGenre(in.Genre)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: invalid draft: %w", err)
	}
	r, err := domain.NewRelease(m.newID(), userID, in.Title, genre, m.newID(), m.now())
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: invalid draft: %w", err)
	}

	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.Add(r)
	m.autosave(ctx, *r)

	return r.Clone(), nil
}

func (m *ReleaseManager) UpdateRelease(ctx context.Context, userID, releaseID string, patch domain.ReleasePatch) (domain.Release, error) {
	return m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		return r.Apply(patch)
	})
}

func (m *ReleaseManager) AddTrack(ctx context.Context, userID, releaseID string) (domain.Track, error) {
	track := domain.NewTrack(m.newID())
	if _, err := m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		return r.AddTrack(track)
	}); err != nil {
		return domain.Track{}, err
	}
	return track, nil
}

func (m *ReleaseManager) RemoveTrack(ctx context.Context, userID, releaseID, trackID string) (domain.Release, error) {
	return m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		return r.RemoveTrack(trackID)
	})
}

func (m *ReleaseManager) UpdateTrack(ctx context.Context, userID, releaseID, trackID string, patch domain.TrackPatch) (domain.Track, error) {
	var out domain.Track
	_, err := m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		t, err := r.UpdateTrack(trackID, patch)
		out = t
		return err
	})
	return out, err
}

// AttachAudio binds one .wav file to a track. Replacing a track's audio does
// not count against the per-release limit.
func (m *ReleaseManager) AttachAudio(ctx context.Context, userID, releaseID, trackID string, up AudioUpload) (domain.Track, error) {
	if err := domain.ValidateAudioName(up.Name); err != nil {
		return domain.Track{}, fmt.Errorf("service: attach audio: %w", err)
	}
	var out domain.Track
	_, err := m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		if err := r.Editable(); err != nil {
			return err
		}
		t, err := r.Track(trackID)
		if err != nil {
			return err
		}
		if t.Audio == nil {
			if err := m.audio.CheckLimit(r.AudioCount(), 1); err != nil {
				return err
			}
		}
		f, err := m.audio.Inspect(up)
		if err != nil {
			return err
		}
		if err := r.AttachAudio(trackID, f); err != nil {
			return err
		}
		t, _ = r.Track(trackID)
		out = *t
		return nil
	})
	return out, err
}

// UploadAudio binds a batch of files, one track per file. Tracks without
// audio are filled first, then new tracks are appended. The whole batch is
// rejected when any file is invalid or the release would exceed the limit.
func (m *ReleaseManager) UploadAudio(ctx context.Context, userID, releaseID string, uploads []AudioUpload) (domain.Release, error) {
	if len(uploads) == 0 {
		return domain.Release{}, fmt.Errorf("service: upload audio: %w", domain.ErrEmptyFile)
	}
	for _, up := range uploads {
		if err := domain.ValidateAudioName(up.Name); err != nil {
			return domain.Release{}, fmt.Errorf("service: upload audio %q: %w", up.Name, err)
		}
	}
	return m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		if err := r.Editable(); err != nil {
			return err
		}
		if err := m.audio.CheckLimit(r.AudioCount(), len(uploads)); err != nil {
			return err
		}
		next := 0
		for _, up := range uploads {
			f, err := m.audio.Inspect(up)
			if err != nil {
				return fmt.Errorf("%q: %w", up.Name, err)
			}
			for next < len(r.Tracks) && r.Tracks[next].Audio != nil {
				next++
			}
			if next == len(r.Tracks) {
				if err := r.AddTrack(domain.NewTrack(m.newID())); err != nil {
					return err
				}
			}
			t := &r.Tracks[next]
			if strings.TrimSpace(t.Title) == "" {
				t.Title = strings.TrimSuffix(f.Name, path.Ext(f.Name))
			}
			if err := r.AttachAudio(t.ID, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// AttachCover validates an image and stores it as the release artwork. A
// rejected image leaves the release unchanged.
func (m *ReleaseManager) AttachCover(ctx context.Context, userID, releaseID string, img io.Reader) (domain.Release, error) {
	cover, err := m.covers.Validate(img)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: attach cover: %w", err)
	}
	return m.edit(ctx, userID, releaseID, func(r *domain.Release) error {
		return r.AttachCover(cover)
	})
}

// edit applies fn to a copy of the release and commits it only on success.
func (m *ReleaseManager) edit(ctx context.Context, userID, releaseID string, fn func(*domain.Release) error) (domain.Release, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.catalog.Find(releaseID)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: release %s: %w", releaseID, err)
	}
	work := r.Clone()
	if err := fn(&work); err != nil {
		return domain.Release{}, fmt.Errorf("service: edit release %s: %w", releaseID, err)
	}
	work.UpdatedAt = m.now()
	*r = work
	m.autosave(ctx, work)

	return r.Clone(), nil
}

// SubmitForModeration sends a ready Draft to moderation. A release never seen
// by the backend is created there first; its remote ID is kept even when the
// status update then fails, so a retry does not create it twice. A release the
// backend already knows gets its current metadata pushed before the status.
func (m *ReleaseManager) SubmitForModeration(ctx context.Context, userID, releaseID string) (domain.Release, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.catalog.Find(releaseID)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: release %s: %w", releaseID, err)
	}

	// 1. Local checks first, so an incomplete release never reaches the backend
	if err := r.ReadyForModeration(); err != nil {
		return domain.Release{}, fmt.Errorf("service: cannot submit release %s: %w", releaseID, err)
	}

	// 2. Make sure the backend knows the release
	if r.RemoteID == "" {
		remoteID, err := m.api.Create(ctx, userID, r.Clone())
		if err != nil {
			m.logRemote("create", userID, releaseID, err)
			return domain.Release{}, fmt.Errorf("service: failed to create release remotely: %w", err)
		}
		r.RemoteID = remoteID
		m.autosave(ctx, *r)
	} else if err := m.api.Update(ctx, userID, r.Clone()); err != nil {
		m.logRemote("update", userID, releaseID, err)
		return domain.Release{}, fmt.Errorf("service: failed to update release remotely: %w", err)
	}

	// 3. Confirm the new status remotely before flipping it locally
	if err := m.api.SetStatus(ctx, userID, r.RemoteID, domain.StatusOnModeration); err != nil {
		m.logRemote("submit", userID, releaseID, err)
		return domain.Release{}, fmt.Errorf("service: failed to submit release: %w", err)
	}
	if err := r.Submit(); err != nil {
		return domain.Release{}, fmt.Errorf("service: cannot submit release %s: %w", releaseID, err)
	}
	r.UpdatedAt = m.now()
	m.clearDraftIf(ctx, userID, releaseID)
	m.logState(userID, r, "submitted for moderation")

	return r.Clone(), nil
}

// SoftDelete moves a release to the trash. The caller is expected to have
// confirmed with the artist already.
func (m *ReleaseManager) SoftDelete(ctx context.Context, userID, releaseID string) (domain.Release, error) {
	return m.transition(ctx, userID, releaseID, "soft delete",
		(*domain.Release).CanSoftDelete,
		func(r *domain.Release) error { return m.api.Delete(ctx, userID, r.RemoteID, false) },
		(*domain.Release).SoftDelete,
	)
}

// Restore brings a release back from the trash with its prior status.
func (m *ReleaseManager) Restore(ctx context.Context, userID, releaseID string) (domain.Release, error) {
	return m.transition(ctx, userID, releaseID, "restore",
		(*domain.Release).CanRestore,
		func(r *domain.Release) error { return m.api.Restore(ctx, userID, r.RemoteID, r.Status) },
		(*domain.Release).Restore,
	)
}

func (m *ReleaseManager) transition(ctx context.Context, userID, releaseID, op string, check func(*domain.Release) error, remote func(*domain.Release) error, apply func(*domain.Release) error) (domain.Release, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.catalog.Find(releaseID)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: release %s: %w", releaseID, err)
	}
	if err := check(r); err != nil {
		return domain.Release{}, fmt.Errorf("service: cannot %s release %s: %w", op, releaseID, err)
	}
	if r.RemoteID != "" {
		if err := remote(r); err != nil {
			m.logRemote(op, userID, releaseID, err)
			return domain.Release{}, fmt.Errorf("service: failed to %s release: %w", op, err)
		}
	}
	if err := apply(r); err != nil {
		return domain.Release{}, fmt.Errorf("service: cannot %s release %s: %w", op, releaseID, err)
	}
	r.UpdatedAt = m.now()
	if r.Deleted {
		m.clearDraftIf(ctx, userID, releaseID)
	} else {
		m.autosave(ctx, *r)
	}
	m.logState(userID, r, op)

	return r.Clone(), nil
}

// Purge permanently removes a soft-deleted release.
func (m *ReleaseManager) Purge(ctx context.Context, userID, releaseID string) error {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.catalog.Find(releaseID)
	if err != nil {
		return fmt.Errorf("service: release %s: %w", releaseID, err)
	}
	if err := r.CanPurge(); err != nil {
		return fmt.Errorf("service: cannot purge release %s: %w", releaseID, err)
	}
	if r.RemoteID != "" {
		if err := m.api.Delete(ctx, userID, r.RemoteID, true); err != nil {
			m.logRemote("purge", userID, releaseID, err)
			return fmt.Errorf("service: failed to purge release: %w", err)
		}
	}
	s.catalog.Remove(releaseID)
	m.clearDraftIf(ctx, userID, releaseID)
	logger.Info(logger.EventReleaseState, "release purged", logger.Fields("user_id", userID, "release_id", releaseID))
	return nil
}

// Draft returns the autosaved in-progress release.
func (m *ReleaseManager) Draft(ctx context.Context, userID string) (domain.Release, error) {
	d, err := m.drafts.LoadDraft(ctx, userID)
	if err != nil {
		return domain.Release{}, fmt.Errorf("service: load draft: %w", err)
	}
	return d, nil
}

// DiscardDraft drops the autosaved draft. A local-only draft also leaves the
// catalog, since nothing else would bring it back.
func (m *ReleaseManager) DiscardDraft(ctx context.Context, userID string) error {
	d, err := m.drafts.LoadDraft(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: load draft: %w", err)
	}
	if err := m.drafts.ClearDraft(ctx, userID); err != nil {
		return fmt.Errorf("service: clear draft: %w", err)
	}

	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, err := s.catalog.Find(d.ID); err == nil && r.RemoteID == "" && r.Status == domain.StatusDraft {
		s.catalog.Remove(d.ID)
	}
	return nil
}

// autosave persists an active Draft after each change. Failures are logged
// and do not fail the edit.
func (m *ReleaseManager) autosave(ctx context.Context, r domain.Release) {
	if r.Status != domain.StatusDraft || r.Deleted {
		return
	}
	if err := m.drafts.SaveDraft(ctx, r.Clone()); err != nil {
		logger.Warn(logger.EventDraftAutosave, "failed to autosave draft", logger.Fields("user_id", r.OwnerID, "release_id", r.ID, "error", err))
	}
}

func (m *ReleaseManager) clearDraftIf(ctx context.Context, userID, releaseID string) {
	d, err := m.drafts.LoadDraft(ctx, userID)
	if err != nil || d.ID != releaseID {
		return
	}
	if err := m.drafts.ClearDraft(ctx, userID); err != nil {
		logger.Warn(logger.EventDraftAutosave, "failed to clear draft", logger.Fields("user_id", userID, "release_id", releaseID, "error", err))
	}
}

func (m *ReleaseManager) logState(userID string, r *domain.Release, what string) {
	logger.Info(logger.EventReleaseState, "release "+what, logger.Fields(
		"user_id", userID,
		"release_id", r.ID,
		"remote_id", r.RemoteID,
		"status", string(r.Status),
		"deleted", r.Deleted,
	))
}

func (m *ReleaseManager) logRemote(op, userID, releaseID string, err error) {
	logger.Error(logger.EventRemoteError, "releases backend call failed", logger.Fields(
		"op", op,
		"user_id", userID,
		"release_id", releaseID,
		"error", err,
	))
}
