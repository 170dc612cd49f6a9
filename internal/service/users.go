package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/observability"
	"github.com/meltforce/pulsefit/internal/storage"
)

const (
	defaultRestingHR       = 60
	defaultDailyBurnTarget = 12
	defaultNDMode          = "standard"
	initialStreakFreezes   = 1
)

func validateProfile(p models.UserProfile) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.Age <= 0 || p.Age > 120:
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidInput)
	case p.WeightKg <= 0:
		return fmt.Errorf("%w: weight_kg must be positive", ErrInvalidInput)
	case p.HeightCm <= 0:
		return fmt.Errorf("%w: height_cm must be positive", ErrInvalidInput)
	case p.RestingHR < 0 || p.MaxHR < 0:
		return fmt.Errorf("%w: heart rates must not be negative", ErrInvalidInput)
	case p.DailyBurnTarget < 0:
		return fmt.Errorf("%w: daily_burn_target must not be negative", ErrInvalidInput)
	}
	return nil
}

// CreateUser registers a user. Unset resting HR, daily target and mode take
// their defaults; an unset max HR is derived as 220 - age.
func (s *Service) CreateUser(ctx context.Context, p models.UserProfile) (*models.User, error) {
	if p.RestingHR == 0 {
		p.RestingHR = defaultRestingHR
	}
	if p.DailyBurnTarget == 0 {
		p.DailyBurnTarget = defaultDailyBurnTarget
	}
	if p.NDMode == "" {
		p.NDMode = defaultNDMode
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	p.MaxHR = p.EffectiveMaxHR()

	u := models.User{
		ID:               uuid.New(),
		UserProfile:      p,
		ProgressionState: models.ProgressionState{StreakFreezes: initialStreakFreezes},
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info("user created", "user_id", u.ID)
	return &u, nil
}

// GetUser returns a user with its progression state.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	return u, nil
}

// UpdateProfile applies a partial profile update. An empty update is
// rejected with ErrInvalidInput.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	p := upd.Apply(u.UserProfile)
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProfile(ctx, id, p); err != nil {
		return nil, fmt.Errorf("updating profile: %w", userErr(err))
	}
	u.UserProfile = p
	return u, nil
}

// UseStreakFreeze spends one freeze to count today without a workout and
// returns the freezes left. It fails with engine.ErrNoFreezesAvailable when
// the inventory is empty, leaving state untouched.
func (s *Service) UseStreakFreeze(ctx context.Context, userID uuid.UUID) (int, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var remaining int
	err := s.store.WithUserLock(ctx, userID, func(tx storage.UserTx) error {
		u, err := tx.LockUser(ctx)
		if err != nil {
			return userErr(err)
		}
		state, err := engine.ConsumeFreeze(u.ProgressionState, s.now())
		if err != nil {
			return err
		}
		remaining = state.StreakFreezes
		return tx.SaveProgression(ctx, state)
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoFreezesAvailable) || errors.Is(err, ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("using streak freeze: %w", err)
	}
	observability.RecordFreezeUsed()
	s.logger.Info("streak freeze used", "user_id", userID, "remaining", remaining)
	return remaining, nil
}

// CheckAchievements evaluates cumulative achievements without a workout,
// for example after a streak freeze, and unlocks any that now qualify.
func (s *Service) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]engine.Achievement, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var earned []engine.Achievement
	now := s.now().UTC()
	err := s.store.WithUserLock(ctx, userID, func(tx storage.UserTx) error {
		u, err := tx.LockUser(ctx)
		if err != nil {
			return userErr(err)
		}
		unlocked, err := tx.UnlockedIDs(ctx)
		if err != nil {
			return err
		}
		earned = engine.Evaluate(engine.Catalog, u.ProgressionState, unlocked, nil)
		if len(earned) == 0 {
			return nil
		}
		state, recs := engine.Unlock(u.ProgressionState, unlocked, earned, userID, now)
		if err := tx.InsertUnlocked(ctx, recs); err != nil {
			return err
		}
		return tx.SaveProgression(ctx, state)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("checking achievements: %w", err)
	}

	evs := make([]engine.Event, 0, len(earned))
	for _, a := range earned {
		observability.RecordAchievement(a.ID)
		evs = append(evs, engine.AchievementEvent(userID, nil, a, now))
	}
	s.publish(ctx, evs)
	return earned, nil
}
