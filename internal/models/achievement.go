package models

import (
	"time"

	"github.com/google/uuid"
)

// UnlockedAchievement records that a user earned an achievement.
// At most one exists per (user, achievement) pair.
type UnlockedAchievement struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// PersonalBests holds a user's running maxima and the dates they were set.
type PersonalBests struct {
	UserID                uuid.UUID  `json:"user_id"`
	MaxSessionPoints      int        `json:"max_session_points"`
	MaxSessionPointsDate  *time.Time `json:"max_session_points_date"`
	LongestWorkoutSeconds int        `json:"longest_workout_seconds"`
	LongestWorkoutDate    *time.Time `json:"longest_workout_date"`
	LongestPeakSeconds    int        `json:"longest_peak_seconds"`
	LongestPeakDate       *time.Time `json:"longest_peak_date"`
}
