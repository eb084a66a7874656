package ports

import (
	"context"

	"github.com/olprod/backend/internal/core/domain"
)

// SmartLinkStore is the flat smart-link collection. Append must fail with
// domain.ErrSlugTaken when the slug already exists.
type SmartLinkStore interface {
	Append(ctx context.Context, link domain.SmartLink) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SmartLink, error)
	FindBySlug(ctx context.Context, slug string) (domain.SmartLink, error)
	FindByID(ctx context.Context, id string) (domain.SmartLink, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
	Delete(ctx context.Context, id string) error
}

// DraftStore holds the single in-progress release of each user.
type DraftStore interface {
	LoadDraft(ctx context.Context, userID string) (domain.Release, error)
	SaveDraft(ctx context.Context, r domain.Release) error
	ClearDraft(ctx context.Context, userID string) error
}

type PreferenceStore interface {
	Theme(ctx context.Context, userID string) (domain.Theme, error)
	SetTheme(ctx context.Context, userID string, theme domain.Theme) error
}
