package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/olprod/backend/internal/core/domain"
)

// LoadDraft returns the user's autosaved release.
func (a *Adapter) LoadDraft(ctx context.Context, userID string) (domain.Release, error) {
	var payload string
	err := a.db.QueryRowContext(ctx, "SELECT payload FROM drafts WHERE user_id = ?", userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Release{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Release{}, fmt.Errorf("failed to load draft: %w", err)
	}
	var r domain.Release
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return domain.Release{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return r, nil
}

// SaveDraft replaces the owner's single draft record.
func (a *Adapter) SaveDraft(ctx context.Context, r domain.Release) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO drafts (user_id, release_id, payload) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			release_id=excluded.release_id,
			payload=excluded.payload,
			updated_at=CURRENT_TIMESTAMP;
	`, r.OwnerID, r.ID, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (a *Adapter) ClearDraft(ctx context.Context, userID string) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM drafts WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
