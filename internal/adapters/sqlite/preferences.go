package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olprod/backend/internal/core/domain"
)

func (a *Adapter) Theme(ctx context.Context, userID string) (domain.Theme, error) {
	var theme string
	err := a.db.QueryRowContext(ctx, "SELECT theme FROM preferences WHERE user_id = ?", userID).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load theme: %w", err)
	}
	return domain.Theme(theme), nil
}

func (a *Adapter) SetTheme(ctx context.Context, userID string, theme domain.Theme) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, theme) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET theme=excluded.theme, updated_at=CURRENT_TIMESTAMP;
	`, userID, string(theme))
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
