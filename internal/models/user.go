package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the biometric and configuration snapshot used by scoring.
type UserProfile struct {
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	WeightKg        float64 `json:"weight_kg"`
	HeightCm        float64 `json:"height_cm"`
	RestingHR       int     `json:"resting_hr"`
	MaxHR           int     `json:"max_hr"`
	DailyBurnTarget int     `json:"daily_burn_target"`
	NDMode          string  `json:"nd_mode"`
}

// EffectiveMaxHR returns the explicit max heart rate, or 220 - age when unset.
func (p UserProfile) EffectiveMaxHR() int {
	if p.MaxHR > 0 {
		return p.MaxHR
	}
	return 220 - p.Age
}

// ProgressionState is a user's cumulative gamification state.
// Level is derived from XP and never stored.
type ProgressionState struct {
	XP              int        `json:"xp"`
	StreakDays      int        `json:"streak_days"`
	StreakFreezes   int        `json:"streak_freezes_available"`
	LastWorkoutDate *time.Time `json:"last_workout_date"`
	TotalBurnPoints int        `json:"total_burn_points"`
	TotalWorkouts   int        `json:"total_workouts"`
}

// Level returns floor(xp/100)+1.
func (s ProgressionState) Level() int {
	return s.XP/100 + 1
}

// User is a profile plus its progression state.
type User struct {
	ID uuid.UUID `json:"id"`
	UserProfile
	ProgressionState
	CreatedAt time.Time `json:"created_at"`
}

// UserView is the JSON shape returned by the API, with the derived level.
type UserView struct {
	User
	Level int `json:"level"`
}

// View returns the API representation of u.
func (u User) View() UserView {
	return UserView{User: u, Level: u.Level()}
}

// ProfileUpdate carries optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Age             *int     `json:"age,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	HeightCm        *float64 `json:"height_cm,omitempty"`
	RestingHR       *int     `json:"resting_hr,omitempty"`
	MaxHR           *int     `json:"max_hr,omitempty"`
	DailyBurnTarget *int     `json:"daily_burn_target,omitempty"`
	NDMode          *string  `json:"nd_mode,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Age == nil && u.WeightKg == nil && u.HeightCm == nil &&
		u.RestingHR == nil && u.MaxHR == nil && u.DailyBurnTarget == nil && u.NDMode == nil
}

// Apply returns p with the update applied. Changing age without an explicit
// max HR recomputes max HR from the new age.
func (u ProfileUpdate) Apply(p UserProfile) UserProfile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Age != nil {
		p.Age = *u.Age
		if u.MaxHR == nil {
			p.MaxHR = 220 - p.Age
		}
	}
	if u.WeightKg != nil {
		p.WeightKg = *u.WeightKg
	}
	if u.HeightCm != nil {
		p.HeightCm = *u.HeightCm
	}
	if u.RestingHR != nil {
		p.RestingHR = *u.RestingHR
	}
	if u.MaxHR != nil {
		p.MaxHR = *u.MaxHR
	}
	if u.DailyBurnTarget != nil {
		p.DailyBurnTarget = *u.DailyBurnTarget
	}
	if u.NDMode != nil {
		p.NDMode = *u.NDMode
	}
	return p
}
