package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/storage"
)

// Templates returns the built-in templates.
func (s *Service) Templates() []models.Template {
	return engine.BuiltInTemplates
}

// Template returns a built-in template by id, or a custom template by UUID.
func (s *Service) Template(ctx context.Context, id string) (*models.Template, error) {
	if t, ok := engine.BuiltInTemplate(id); ok {
		return &t, nil
	}
	tid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	t, err := s.store.GetTemplate(ctx, tid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

// UserTemplates returns a user's custom templates.
func (s *Service) UserTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	return s.store.ListTemplates(ctx, userID)
}

// ListTemplates returns the built-in templates followed by the user's own.
func (s *Service) ListTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	custom, err := s.store.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	out := make([]models.Template, 0, len(engine.BuiltInTemplates)+len(custom))
	out = append(out, engine.BuiltInTemplates...)
	return append(out, custom...), nil
}

// CreateTemplate stores a custom template for a user.
func (s *Service) CreateTemplate(ctx context.Context, userID uuid.UUID, in models.CustomTemplateInput) (*models.Template, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Segments) == 0 {
		return nil, fmt.Errorf("%w: at least one segment is required", ErrInvalidInput)
	}
	for i, seg := range in.Segments {
		if seg.DurationSeconds <= 0 {
			return nil, fmt.Errorf("%w: segment %d needs a positive duration", ErrInvalidInput, i)
		}
		if _, ok := engine.ZoneFor(seg.TargetZone); !ok {
			return nil, fmt.Errorf("%w: segment %d targets unknown zone %d", ErrInvalidInput, i, seg.TargetZone)
		}
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	t := engine.NewCustomTemplate(in)
	t.ID = uuid.NewString()
	t.UserID = &userID
	created := s.now().UTC()
	t.CreatedAt = &created
	if err := s.store.InsertTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return &t, nil
}

// DeleteTemplate removes a custom template. Built-in templates cannot be
// deleted and report ErrTemplateNotFound.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	tid, err := uuid.Parse(id)
	if err != nil {
		return ErrTemplateNotFound
	}
	if err := s.store.DeleteTemplate(ctx, tid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}
