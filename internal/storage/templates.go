package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/pulsefit/internal/models"
)

const templateColumns = `id, user_id, name, description, duration_minutes, estimated_burn_points, segments, created_at`

// InsertTemplate stores a custom template. ID, UserID and CreatedAt must be set.
func (db *DB) InsertTemplate(ctx context.Context, t models.Template) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return fmt.Errorf("parsing template id: %w", err)
	}
	segs, err := json.Marshal(t.Segments)
	if err != nil {
		return fmt.Errorf("encoding segments: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO custom_templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, t.UserID, t.Name, t.Description, t.DurationMinutes, t.EstimatedBurnPoints, segs, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// GetTemplate returns a custom template by ID, or ErrNotFound.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+templateColumns+` FROM custom_templates WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}
	defer rows.Close()

	ts, err := scanTemplates(rows)
	if err != nil {
		return nil, err
	}
	if len(ts) == 0 {
		return nil, ErrNotFound
	}
	return &ts[0], nil
}

// ListTemplates returns a user's custom templates, oldest first.
func (db *DB) ListTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+templateColumns+` FROM custom_templates WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// DeleteTemplate removes a custom template. Returns ErrNotFound if it did
// not exist.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM custom_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTemplates(rows pgx.Rows) ([]models.Template, error) {
	result := []models.Template{}
	for rows.Next() {
		var (
			t     models.Template
			id    uuid.UUID
			owner uuid.UUID
			segs  []byte
		)
		t.CreatedAt = new(time.Time)
		if err := rows.Scan(&id, &owner, &t.Name, &t.Description, &t.DurationMinutes, &t.EstimatedBurnPoints,
			&segs, t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		if err := json.Unmarshal(segs, &t.Segments); err != nil {
			return nil, fmt.Errorf("decoding segments: %w", err)
		}
		t.ID = id.String()
		t.UserID = &owner
		t.Difficulty = "custom"
		t.Category = "custom"
		result = append(result, t)
	}
	return result, rows.Err()
}
