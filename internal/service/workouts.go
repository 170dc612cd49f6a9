package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/observability"
	"github.com/meltforce/pulsefit/internal/storage"
)

const (
	defaultWorkoutPage = 20
	maxWorkoutPage     = 100
)

// WorkoutResult is a scored workout plus what it changed.
type WorkoutResult struct {
	models.WorkoutRecord
	AchievementsUnlocked []engine.Achievement        `json:"achievements_unlocked"`
	PersonalBests        []engine.PersonalBestChange `json:"personal_bests"`
	Level                int                         `json:"level"`
	TotalXP              int                         `json:"total_xp"`
	StreakDays           int                         `json:"streak_days"`
}

func validateWorkout(in models.WorkoutInput) error {
	if in.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if in.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration_seconds must not be negative", ErrInvalidInput)
	}
	for i, smp := range in.Samples {
		if smp.HeartRate < 0 {
			return fmt.Errorf("%w: sample %d has a negative heart rate", ErrInvalidInput, i)
		}
	}
	return nil
}

// templateName resolves a template id to its display name. Unknown ids
// leave the workout unlabelled.
func (s *Service) templateName(ctx context.Context, id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	if t, ok := engine.BuiltInTemplate(*id); ok {
		return &t.Name
	}
	tid, err := uuid.Parse(*id)
	if err != nil {
		return nil
	}
	t, err := s.store.GetTemplate(ctx, tid)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("template lookup failed", "template_id", *id, "error", err)
		}
		return nil
	}
	return &t.Name
}

// SubmitWorkout scores a session and applies it to the user's progression,
// achievements and personal bests as one unit. Concurrent submissions for
// the same user are serialised.
func (s *Service) SubmitWorkout(ctx context.Context, in models.WorkoutInput) (*WorkoutResult, error) {
	if err := validateWorkout(in); err != nil {
		return nil, err
	}
	name := s.templateName(ctx, in.TemplateID)

	unlock := s.locks.Lock(in.UserID)
	defer unlock()

	started := time.Now()
	var (
		res    WorkoutResult
		target int
		maxHR  int
	)
	err := s.store.WithUserLock(ctx, in.UserID, func(tx storage.UserTx) error {
		u, err := tx.LockUser(ctx)
		if err != nil {
			return userErr(err)
		}
		target = u.DailyBurnTarget
		maxHR = u.EffectiveMaxHR()

		w := engine.Score(u.UserProfile, engine.ScoreInput{
			Samples:         in.Samples,
			DurationSeconds: in.DurationSeconds,
			EndTime:         s.now(),
			TemplateID:      in.TemplateID,
			TemplateName:    name,
			Notes:           in.Notes,
		})
		w.ID = uuid.New()
		w.UserID = u.ID
		w.XPEarned = engine.WorkoutXP(w.TotalBurnPoints, w.TargetHit, u.StreakDays)

		state := engine.ApplyWorkout(u.ProgressionState, w)

		unlocked, err := tx.UnlockedIDs(ctx)
		if err != nil {
			return err
		}
		earned := engine.Evaluate(engine.Catalog, state, unlocked, &w)
		state, recs := engine.Unlock(state, unlocked, earned, u.ID, w.EndTime)

		bests, err := tx.PersonalBests(ctx)
		if err != nil {
			return err
		}
		bests, changes := engine.UpdatePersonalBests(bests, w)

		if err := tx.InsertWorkout(ctx, w); err != nil {
			return err
		}
		if err := tx.SaveProgression(ctx, state); err != nil {
			return err
		}
		if err := tx.InsertUnlocked(ctx, recs); err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.SavePersonalBests(ctx, bests); err != nil {
				return err
			}
		}

		res = WorkoutResult{
			WorkoutRecord:        w,
			AchievementsUnlocked: earned,
			PersonalBests:        changes,
			Level:                state.Level(),
			TotalXP:              state.XP,
			StreakDays:           state.StreakDays,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("submitting workout: %w", err)
	}

	observability.RecordWorkout(res.TotalBurnPoints, res.TargetHit, time.Since(started))
	for _, a := range res.AchievementsUnlocked {
		observability.RecordAchievement(a.ID)
	}
	for _, c := range res.PersonalBests {
		observability.RecordPersonalBest(c.Metric)
	}

	wid := res.ID
	evs := engine.ZoneTransitions(res.UserID, in.Samples, maxHR, res.StartTime)
	for i := range evs {
		evs[i].WorkoutID = &wid
	}
	evs = append(evs, engine.WorkoutEvents(res.WorkoutRecord, target, res.AchievementsUnlocked, res.PersonalBests)...)
	s.publish(ctx, evs)

	s.logger.Info("workout scored",
		"user_id", res.UserID, "workout_id", res.ID,
		"points", res.TotalBurnPoints, "target_hit", res.TargetHit,
		"xp", res.XPEarned, "achievements", len(res.AchievementsUnlocked))
	if res.AchievementsUnlocked == nil {
		res.AchievementsUnlocked = []engine.Achievement{}
	}
	if res.PersonalBests == nil {
		res.PersonalBests = []engine.PersonalBestChange{}
	}
	return &res, nil
}

// GetWorkout returns one workout with its samples.
func (s *Service) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRecord, error) {
	w, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return w, nil
}

// ListWorkouts returns a page of a user's workouts, newest first, and the
// total count. limit defaults to 20 and is capped at 100.
func (s *Service) ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error) {
	if limit <= 0 {
		limit = defaultWorkoutPage
	}
	limit = min(limit, maxWorkoutPage)
	offset = max(offset, 0)
	return s.store.ListWorkouts(ctx, userID, limit, offset)
}
