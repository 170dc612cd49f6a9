package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
)

// Export is everything stored for one user.
type Export struct {
	ExportedAt    time.Time                    `json:"exported_at"`
	User          models.UserView              `json:"user"`
	Settings      models.Settings              `json:"settings"`
	Workouts      []models.WorkoutRecord       `json:"workouts"`
	Achievements  []models.UnlockedAchievement `json:"achievements"`
	PersonalBests models.PersonalBests         `json:"personal_bests"`
}

// Export gathers a user's profile, settings, workouts, unlocks and personal
// bests. Workouts are ordered oldest first.
func (s *Service) Export(ctx context.Context, userID uuid.UUID) (*Export, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	workouts, err := s.store.WorkoutsSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	unlocked, err := s.store.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	bests, err := s.PersonalBests(ctx, userID)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.WorkoutRecord{}
	}
	if unlocked == nil {
		unlocked = []models.UnlockedAchievement{}
	}
	return &Export{
		ExportedAt:    s.now().UTC(),
		User:          u.View(),
		Settings:      settings,
		Workouts:      workouts,
		Achievements:  unlocked,
		PersonalBests: bests,
	}, nil
}
