package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
	"github.com/olprod/backend/internal/logger"
)

const maxSlugAttempts = 5

// SmartLinkInput is the form an artist submits to create a smart link.
type SmartLinkInput struct {
	ReleaseName string                `json:"releaseName"`
	ArtistName  string                `json:"artistName"`
	CoverURL    string                `json:"coverUrl"`
	Platforms   []domain.PlatformLink `json:"platforms"`
}

// SmartLinkManager creates, lists and resolves smart links.
type SmartLinkManager struct {
	store   ports.SmartLinkStore
	baseURL string
	newID   func() string
	now     func() time.Time
}

// NewSmartLinkManager constructs a SmartLinkManager. baseURL is the public
// origin share URLs are built on.
func NewSmartLinkManager(store ports.SmartLinkStore, baseURL string) *SmartLinkManager {
	return &SmartLinkManager{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// ShareURL is the public address of a smart link.
func (m *SmartLinkManager) ShareURL(slug string) string {
	return m.baseURL + "/smartlink/" + slug
}

// Create validates and stores a new smart link and returns it with its share
// URL. A slug already taken in storage gets a numeric suffix.
func (m *SmartLinkManager) Create(ctx context.Context, ownerID string, in SmartLinkInput) (domain.SmartLink, string, error) {
	link, err := domain.NewSmartLink(m.newID(), ownerID, in.ReleaseName, in.ArtistName, strings.TrimSpace(in.CoverURL), in.Platforms, m.now())
	if err != nil {
		return domain.SmartLink{}, "", fmt.Errorf("service: invalid smart link: %w", err)
	}

	base := link.Slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		if attempt > 0 {
			link.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}
		err = m.store.Append(ctx, link)
		if err == nil {
			logger.Info(logger.EventSmartLink, "smart link created", logger.Fields("owner_id", ownerID, "slug", link.Slug, "platforms", len(link.Platforms)))
			return link, m.ShareURL(link.Slug), nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return domain.SmartLink{}, "", fmt.Errorf("service: failed to save smart link: %w", err)
		}
	}
	return domain.SmartLink{}, "", fmt.Errorf("service: failed to save smart link: %w", err)
}

// List returns the owner's active links, newest first.
func (m *SmartLinkManager) List(ctx context.Context, ownerID string) ([]domain.SmartLink, error) {
	return m.byState(ctx, ownerID, false)
}

// Trash returns the owner's soft-deleted links.
func (m *SmartLinkManager) Trash(ctx context.Context, ownerID string) ([]domain.SmartLink, error) {
	return m.byState(ctx, ownerID, true)
}

func (m *SmartLinkManager) byState(ctx context.Context, ownerID string, deleted bool) ([]domain.SmartLink, error) {
	all, err := m.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list smart links: %w", err)
	}
	out := make([]domain.SmartLink, 0, len(all))
	for _, l := range all {
		if l.Deleted == deleted {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Resolve finds an active link by slug for public viewers.
func (m *SmartLinkManager) Resolve(ctx context.Context, slug string) (domain.SmartLink, error) {
	l, err := m.store.FindBySlug(ctx, slug)
	if err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: resolve %q: %w", slug, err)
	}
	if l.Deleted {
		return domain.SmartLink{}, fmt.Errorf("service: resolve %q: %w", slug, domain.ErrNotFound)
	}
	return l, nil
}

func (m *SmartLinkManager) SoftDelete(ctx context.Context, ownerID, id string) (domain.SmartLink, error) {
	l, err := m.owned(ctx, ownerID, id)
	if err != nil {
		return domain.SmartLink{}, err
	}
	if err := l.SoftDelete(); err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: cannot delete smart link %s: %w", id, err)
	}
	if err := m.store.SetDeleted(ctx, id, true); err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: failed to delete smart link: %w", err)
	}
	logger.Info(logger.EventSmartLink, "smart link moved to trash", logger.Fields("owner_id", ownerID, "slug", l.Slug))
	return l, nil
}

func (m *SmartLinkManager) Restore(ctx context.Context, ownerID, id string) (domain.SmartLink, error) {
	l, err := m.owned(ctx, ownerID, id)
	if err != nil {
		return domain.SmartLink{}, err
	}
	if err := l.Restore(); err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: cannot restore smart link %s: %w", id, err)
	}
	if err := m.store.SetDeleted(ctx, id, false); err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: failed to restore smart link: %w", err)
	}
	return l, nil
}

// Purge permanently removes a link already in the trash.
func (m *SmartLinkManager) Purge(ctx context.Context, ownerID, id string) error {
	l, err := m.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := l.CanPurge(); err != nil {
		return fmt.Errorf("service: cannot purge smart link %s: %w", id, err)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to purge smart link: %w", err)
	}
	logger.Info(logger.EventSmartLink, "smart link purged", logger.Fields("owner_id", ownerID, "slug", l.Slug))
	return nil
}

// owned loads a link and hides links of other artists behind ErrNotFound.
func (m *SmartLinkManager) owned(ctx context.Context, ownerID, id string) (domain.SmartLink, error) {
	l, err := m.store.FindByID(ctx, id)
	if err != nil {
		return domain.SmartLink{}, fmt.Errorf("service: smart link %s: %w", id, err)
	}
	if l.OwnerID != ownerID {
		return domain.SmartLink{}, fmt.Errorf("service: smart link %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}
