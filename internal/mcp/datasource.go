package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/service"
)

// DataSource abstracts the data layer for MCP tools. Both *service.Service
// (in-process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Stats(ctx context.Context, userID uuid.UUID) (*engine.Stats, error)
	Trends(ctx context.Context, userID uuid.UUID, days int) (*engine.TrendReport, error)
	Quests(ctx context.Context, userID uuid.UUID) (*engine.QuestBoard, error)
	Achievements(ctx context.Context, userID uuid.UUID) ([]engine.AchievementStatus, error)
	PersonalBests(ctx context.Context, userID uuid.UUID) (models.PersonalBests, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRecord, error)
	ListTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error)
}

// Compile-time check: *service.Service satisfies DataSource.
var _ DataSource = (*service.Service)(nil)
