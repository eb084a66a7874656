package domain

import (
	"strings"
	"time"
)

// Release is a publishable work owned by a single artist.
type Release struct {
	ID          string     `json:"id"`
	RemoteID    string     `json:"remoteId,omitempty"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Genre       Genre      `json:"genre"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	UPC         string     `json:"upc,omitempty"`
	Tracks      []Track    `json:"tracks"`
	Cover       *Cover     `json:"cover,omitempty"`
	Status      Status     `json:"status"`
	Deleted     bool       `json:"deleted"`
	Streams     int64      `json:"streams"`
	Revenue     float64    `json:"revenue"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ReleasePatch edits release-level metadata.
type ReleasePatch struct {
	Title       *string    `json:"title,omitempty"`
	Genre       *Genre     `json:"genre,omitempty"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	UPC         *string    `json:"upc,omitempty"`
}

// NewRelease builds a Draft holding one empty track.
func NewRelease(id, ownerID, title string, genre Genre, firstTrackID string, now time.Time) (*Release, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if genre == "" {
		return nil, ErrMissingGenre
	}
	return &Release{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Genre:     genre,
		Tracks:    []Track{NewTrack(firstTrackID)},
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Editable reports whether tracks, cover and metadata may still change.
func (r *Release) Editable() error {
	if r.Deleted || r.Status != StatusDraft {
		return ErrNotEditable
	}
	return nil
}

func (r *Release) Track(trackID string) (*Track, error) {
	for i := range r.Tracks {
		if r.Tracks[i].ID == trackID {
			return &r.Tracks[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *Release) AddTrack(t Track) error {
	if err := r.Editable(); err != nil {
		return err
	}
	r.Tracks = append(r.Tracks, t)
	return nil
}

// RemoveTrack drops a track, refusing to leave the release empty.
func (r *Release) RemoveTrack(trackID string) error {
	if err := r.Editable(); err != nil {
		return err
	}
	for i := range r.Tracks {
		if r.Tracks[i].ID != trackID {
			continue
		}
		if len(r.Tracks) == 1 {
			return ErrMinimumOneTrack
		}
		r.Tracks = append(r.Tracks[:i], r.Tracks[i+1:]...)
		return nil
	}
	return ErrNotFound
}

func (r *Release) UpdateTrack(trackID string, patch TrackPatch) (Track, error) {
	if err := r.Editable(); err != nil {
		return Track{}, err
	}
	t, err := r.Track(trackID)
	if err != nil {
		return Track{}, err
	}
	patch.apply(t)
	return t.clone(), nil
}

func (r *Release) Apply(patch ReleasePatch) error {
	if err := r.Editable(); err != nil {
		return err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ErrMissingTitle
		}
		r.Title = title
	}
	if patch.Genre != nil {
		if *patch.Genre == "" {
			return ErrMissingGenre
		}
		r.Genre = *patch.Genre
	}
	if patch.ReleaseDate != nil {
		d := *patch.ReleaseDate
		r.ReleaseDate = &d
	}
	if patch.UPC != nil {
		r.UPC = strings.TrimSpace(*patch.UPC)
	}
	return nil
}

func (r *Release) AttachAudio(trackID string, f AudioFile) error {
	if err := ValidateAudioName(f.Name); err != nil {
		return err
	}
	if err := r.Editable(); err != nil {
		return err
	}
	t, err := r.Track(trackID)
	if err != nil {
		return err
	}
	t.Audio = &f
	return nil
}

// AudioCount is the number of tracks with an audio file bound.
func (r *Release) AudioCount() int {
	n := 0
	for _, t := range r.Tracks {
		if t.Audio != nil {
			n++
		}
	}
	return n
}

func (r *Release) AttachCover(c Cover) error {
	if err := r.Editable(); err != nil {
		return err
	}
	r.Cover = &c
	return nil
}

// ReadyForModeration checks everything submission needs without changing state.
func (r *Release) ReadyForModeration() error {
	if r.Deleted || r.Status != StatusDraft {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if r.Genre == "" {
		return ErrMissingGenre
	}
	if r.Cover == nil {
		return ErrCoverRequired
	}
	if len(r.Tracks) == 0 {
		return ErrMinimumOneTrack
	}
	for _, t := range r.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			return ErrTrackTitleRequired
		}
	}
	return nil
}

// Submit moves a ready Draft to On Moderation.
func (r *Release) Submit() error {
	if err := r.ReadyForModeration(); err != nil {
		return err
	}
	r.Status = StatusOnModeration
	return nil
}

// CanSoftDelete, CanRestore and CanPurge let callers confirm a remote
// change before applying it locally.
func (r *Release) CanSoftDelete() error {
	if r.Deleted {
		return ErrAlreadyDeleted
	}
	return nil
}

func (r *Release) CanRestore() error {
	if !r.Deleted {
		return ErrNotDeleted
	}
	return nil
}

func (r *Release) CanPurge() error {
	return r.CanRestore()
}

func (r *Release) SoftDelete() error {
	if err := r.CanSoftDelete(); err != nil {
		return err
	}
	r.Deleted = true
	return nil
}

func (r *Release) Restore() error {
	if err := r.CanRestore(); err != nil {
		return err
	}
	r.Deleted = false
	return nil
}

// Clone returns a deep copy safe to hand outside the owning catalog.
func (r *Release) Clone() Release {
	c := *r
	c.Tracks = make([]Track, len(r.Tracks))
	for i, t := range r.Tracks {
		c.Tracks[i] = t.clone()
	}
	if r.Cover != nil {
		cv := *r.Cover
		c.Cover = &cv
	}
	if r.ReleaseDate != nil {
		d := *r.ReleaseDate
		c.ReleaseDate = &d
	}
	return c
}
