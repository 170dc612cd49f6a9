package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

// Stats returns the dashboard summary for a user.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*engine.Stats, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	recent, err := s.store.WorkoutsSince(ctx, userID, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("loading recent workouts: %w", err)
	}
	st := engine.DailyStats(*u, recent, now)
	return &st, nil
}

// Trends returns chart data for the last days days (default 30, max 365).
func (s *Service) Trends(ctx context.Context, userID uuid.UUID, days int) (*engine.TrendReport, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	days = min(days, maxTrendDays)
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	ws, err := s.store.WorkoutsSince(ctx, userID, now.Add(-time.Duration(days)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	r := engine.Trends(ws, now, days)
	return &r, nil
}

// Quests returns today's quest board.
func (s *Service) Quests(ctx context.Context, userID uuid.UUID) (*engine.QuestBoard, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	ws, err := s.store.WorkoutsSince(ctx, userID, engine.CalendarDay(now))
	if err != nil {
		return nil, fmt.Errorf("loading today's workouts: %w", err)
	}
	board := engine.DailyQuests(*u, ws, now)
	return &board, nil
}

// Achievements returns the full catalog with the user's unlock state.
func (s *Service) Achievements(ctx context.Context, userID uuid.UUID) ([]engine.AchievementStatus, error) {
	recs, err := s.store.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	return engine.AchievementStatuses(engine.Catalog, recs), nil
}

// PersonalBests returns a user's personal bests.
func (s *Service) PersonalBests(ctx context.Context, userID uuid.UUID) (models.PersonalBests, error) {
	pb, err := s.store.GetPersonalBests(ctx, userID)
	if err != nil {
		return pb, fmt.Errorf("loading personal bests: %w", err)
	}
	return pb, nil
}

// SimulateHeartRate returns a synthetic reading for a user's profile.
func (s *Service) SimulateHeartRate(ctx context.Context, userID uuid.UUID, intensity string, targetZone int) (*engine.SimulatedReading, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	r := engine.SimulateHeartRate(u.UserProfile, intensity, targetZone, s.rng)
	return &r, nil
}
