package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/pulsefit/internal/models"
)

// GetSettings returns a user's saved settings, or nil if none were saved.
func (db *DB) GetSettings(ctx context.Context, userID uuid.UUID) (*models.Settings, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx, `SELECT settings FROM user_settings WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	var s models.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &s, nil
}

// SaveSettings upserts a user's settings document.
func (db *DB) SaveSettings(ctx context.Context, userID uuid.UUID, s models.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
