package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
)

// Settings returns a user's saved settings, or the defaults.
func (s *Service) Settings(ctx context.Context, userID uuid.UUID) (models.Settings, error) {
	saved, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return models.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if saved == nil {
		return models.DefaultSettings(), nil
	}
	return *saved, nil
}

// SaveSettings replaces a user's settings document.
func (s *Service) SaveSettings(ctx context.Context, userID uuid.UUID, settings models.Settings) (models.Settings, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return models.Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, userID, settings); err != nil {
		return models.Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	return settings, nil
}
