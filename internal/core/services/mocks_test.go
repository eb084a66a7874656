package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

type statusCall struct {
	RemoteID string
	Status   domain.Status
}

type deleteCall struct {
	RemoteID  string
	Permanent bool
}

// mockReleasesAPI records calls and fails when err is set.
type mockReleasesAPI struct {
	snaps     []domain.ReleaseSnapshot
	listErr   error
	err       error
	createErr error
	nextID    int

	created  []domain.Release
	updates  []domain.Release
	statuses []statusCall
	restores []statusCall
	deletes  []deleteCall
}

func (m *mockReleasesAPI) List(ctx context.Context, userID string) ([]domain.ReleaseSnapshot, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.snaps, nil
}

func (m *mockReleasesAPI) Create(ctx context.Context, userID string, r domain.Release) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	m.created = append(m.created, r)
	return fmt.Sprintf("%d", m.nextID), nil
}

func (m *mockReleasesAPI) Update(ctx context.Context, userID string, r domain.Release) error {
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, r)
	return nil
}

func (m *mockReleasesAPI) SetStatus(ctx context.Context, userID, remoteID string, status domain.Status) error {
	if m.err != nil {
		return m.err
	}
	m.statuses = append(m.statuses, statusCall{remoteID, status})
	return nil
}

func (m *mockReleasesAPI) Restore(ctx context.Context, userID, remoteID string, status domain.Status) error {
	if m.err != nil {
		return m.err
	}
	m.restores = append(m.restores, statusCall{remoteID, status})
	return nil
}

func (m *mockReleasesAPI) Delete(ctx context.Context, userID, remoteID string, permanent bool) error {
	if m.err != nil {
		return m.err
	}
	m.deletes = append(m.deletes, deleteCall{remoteID, permanent})
	return nil
}

type mockDraftStore struct {
	drafts  map[string]domain.Release
	saveErr error
	saves   int
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{drafts: make(map[string]domain.Release)}
}

func (m *mockDraftStore) LoadDraft(ctx context.Context, userID string) (domain.Release, error) {
	d, ok := m.drafts[userID]
	if !ok {
		return domain.Release{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockDraftStore) SaveDraft(ctx context.Context, r domain.Release) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.drafts[r.OwnerID] = r
	return nil
}

func (m *mockDraftStore) ClearDraft(ctx context.Context, userID string) error {
	delete(m.drafts, userID)
	return nil
}

type mockSmartLinkStore struct {
	links     []domain.SmartLink
	appendErr error
	// taken makes Append report a slug collision this many times first.
	taken int
}

func (m *mockSmartLinkStore) Append(ctx context.Context, link domain.SmartLink) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if m.taken > 0 {
		m.taken--
		return domain.ErrSlugTaken
	}
	for _, l := range m.links {
		if l.Slug == link.Slug {
			return domain.ErrSlugTaken
		}
	}
	m.links = append(m.links, link)
	return nil
}

func (m *mockSmartLinkStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.SmartLink, error) {
	var out []domain.SmartLink
	for _, l := range m.links {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockSmartLinkStore) FindBySlug(ctx context.Context, slug string) (domain.SmartLink, error) {
	for _, l := range m.links {
		if l.Slug == slug {
			return l, nil
		}
	}
	return domain.SmartLink{}, domain.ErrNotFound
}

func (m *mockSmartLinkStore) FindByID(ctx context.Context, id string) (domain.SmartLink, error) {
	for _, l := range m.links {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.SmartLink{}, domain.ErrNotFound
}

func (m *mockSmartLinkStore) SetDeleted(ctx context.Context, id string, deleted bool) error {
	for i := range m.links {
		if m.links[i].ID == id {
			m.links[i].Deleted = deleted
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockSmartLinkStore) Delete(ctx context.Context, id string) error {
	for i := range m.links {
		if m.links[i].ID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockAuth struct {
	user     domain.User
	err      error
	resetFor string
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (domain.User, error) {
	return m.user, m.err
}

func (m *mockAuth) Register(ctx context.Context, email, password, artistName string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	u := m.user
	u.Email, u.ArtistName = email, artistName
	return u, nil
}

func (m *mockAuth) ResetPassword(ctx context.Context, email, newPassword string) error {
	m.resetFor = email
	return m.err
}

type mockAssistant struct {
	reply string
	err   error
}

func (m *mockAssistant) Reply(ctx context.Context, message string) (string, error) {
	return m.reply, m.err
}

type mockPrefs struct {
	themes map[string]domain.Theme
}

func (m *mockPrefs) Theme(ctx context.Context, userID string) (domain.Theme, error) {
	t, ok := m.themes[userID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

func (m *mockPrefs) SetTheme(ctx context.Context, userID string, theme domain.Theme) error {
	m.themes[userID] = theme
	return nil
}

var (
	_ ports.ReleasesAPI     = (*mockReleasesAPI)(nil)
	_ ports.DraftStore      = (*mockDraftStore)(nil)
	_ ports.SmartLinkStore  = (*mockSmartLinkStore)(nil)
	_ ports.Authenticator   = (*mockAuth)(nil)
	_ ports.Assistant       = (*mockAssistant)(nil)
	_ ports.PreferenceStore = (*mockPrefs)(nil)
)

// pngImage encodes a blank w x h PNG.
func pngImage(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// sequentialIDs returns a newID func yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
