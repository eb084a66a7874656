package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olprod/backend/internal/core/domain"
)

const smartLinkColumns = `id, owner_id, release_name, artist_name, cover_url, platforms, slug, deleted, created_at`

// Append stores a new smart link. The slug column is UNIQUE, so a collision
// surfaces as domain.ErrSlugTaken.
func (a *Adapter) Append(ctx context.Context, link domain.SmartLink) error {
	platforms, err := json.Marshal(link.Platforms)
	if err != nil {
		return fmt.Errorf("failed to encode platforms: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO smart_links (`+smartLinkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		link.ID,
		link.OwnerID,
		link.ReleaseName,
		link.ArtistName,
		link.CoverURL,
		string(platforms),
		link.Slug,
		link.Deleted,
		link.CreatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to save smart link: %w", err)
	}
	return nil
}

func (a *Adapter) ListByOwner(ctx context.Context, ownerID string) ([]domain.SmartLink, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT `+smartLinkColumns+`
		FROM smart_links
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list smart links: %w", err)
	}
	defer rows.Close()

	links := []domain.SmartLink{}
	for rows.Next() {
		l, err := scanSmartLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate smart links: %w", err)
	}
	return links, nil
}

func (a *Adapter) FindBySlug(ctx context.Context, slug string) (domain.SmartLink, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+smartLinkColumns+" FROM smart_links WHERE slug = ?", slug)
	return scanSmartLink(row)
}

func (a *Adapter) FindByID(ctx context.Context, id string) (domain.SmartLink, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+smartLinkColumns+" FROM smart_links WHERE id = ?", id)
	return scanSmartLink(row)
}

func (a *Adapter) SetDeleted(ctx context.Context, id string, deleted bool) error {
	res, err := a.db.ExecContext(ctx, "UPDATE smart_links SET deleted = ? WHERE id = ?", deleted, id)
	if err != nil {
		return fmt.Errorf("failed to update smart link: %w", err)
	}
	return requireRow(res)
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM smart_links WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete smart link: %w", err)
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSmartLink(s scanner) (domain.SmartLink, error) {
	var (
		l         domain.SmartLink
		platforms string
		createdMs int64
	)
	err := s.Scan(&l.ID, &l.OwnerID, &l.ReleaseName, &l.ArtistName, &l.CoverURL, &platforms, &l.Slug, &l.Deleted, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SmartLink{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SmartLink{}, fmt.Errorf("failed to scan smart link: %w", err)
	}
	if err := json.Unmarshal([]byte(platforms), &l.Platforms); err != nil {
		return domain.SmartLink{}, fmt.Errorf("failed to decode platforms of %s: %w", l.ID, err)
	}
	l.CreatedAt = time.UnixMilli(createdMs).UTC()
	return l, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
