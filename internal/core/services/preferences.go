package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

// Preferences reads and writes per-artist display settings.
type Preferences struct {
	store ports.PreferenceStore
}

func NewPreferences(store ports.PreferenceStore) *Preferences {
	return &Preferences{store: store}
}

// Theme returns the stored theme, or ThemeSystem when none was chosen.
func (p *Preferences) Theme(ctx context.Context, userID string) (domain.Theme, error) {
	t, err := p.store.Theme(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ThemeSystem, nil
	}
	if err != nil {
		return "", fmt.Errorf("service: load theme: %w", err)
	}
	return t, nil
}

func (p *Preferences) SetTheme(ctx context.Context, userID, raw string) (domain.Theme, error) {
	t, err := domain.ParseTheme(raw)
	if err != nil {
		return "", fmt.Errorf("service: set theme: %w", err)
	}
	if err := p.store.SetTheme(ctx, userID, t); err != nil {
		return "", fmt.Errorf("service: save theme: %w", err)
	}
	return t, nil
}
