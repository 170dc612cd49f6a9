package engine

import (
	"errors"
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

// ErrNoFreezesAvailable is returned when a streak freeze is requested with
// an empty inventory.
var ErrNoFreezesAvailable = errors.New("no streak freezes available")

const (
	baseWorkoutXP    = 10
	xpPerBurnPoint   = 5
	targetHitBonusXP = 20
	loyaltyBonusXP   = 10
	loyaltyMinStreak = 3
	xpPerLevel       = 100
)

// Level returns the level for a total experience value.
func Level(xp int) int {
	return xp/xpPerLevel + 1
}

// LoyaltyBonusActive reports whether a streak earns the loyalty XP bonus.
func LoyaltyBonusActive(streak int) bool {
	return streak >= loyaltyMinStreak
}

// WorkoutXP is the experience earned by one workout. preStreak is the streak
// before this workout is applied.
func WorkoutXP(points int, targetHit bool, preStreak int) int {
	xp := baseWorkoutXP + points*xpPerBurnPoint
	if targetHit {
		xp += targetHitBonusXP
	}
	if LoyaltyBonusActive(preStreak) {
		xp += loyaltyBonusXP
	}
	return xp
}

// CalendarDay truncates t to midnight UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}

// NextStreak applies one workout to the streak.
//
//	no previous day     -> 1 if target hit, else 0
//	next day, target hit -> +1
//	gap of 2+ days      -> 1 if target hit, else 0
//	anything else       -> unchanged (same day, next day without target, past day)
func NextStreak(streak int, last *time.Time, day time.Time, targetHit bool) int {
	reset := 0
	if targetHit {
		reset = 1
	}
	if last == nil {
		return reset
	}
	switch diff := daysBetween(*last, day); {
	case diff == 1 && targetHit:
		return streak + 1
	case diff > 1:
		return reset
	default:
		return streak
	}
}

// advanceDay returns the later of last and day, as a calendar day.
func advanceDay(last *time.Time, day time.Time) *time.Time {
	d := CalendarDay(day)
	if last != nil && last.After(d) {
		kept := CalendarDay(*last)
		return &kept
	}
	return &d
}

// ApplyWorkout folds a scored workout into the progression state. The
// workout's XPEarned must already be computed against the same state.
func ApplyWorkout(s models.ProgressionState, w models.WorkoutRecord) models.ProgressionState {
	day := w.EndTime
	s.StreakDays = NextStreak(s.StreakDays, s.LastWorkoutDate, day, w.TargetHit)
	s.LastWorkoutDate = advanceDay(s.LastWorkoutDate, day)
	s.XP += w.XPEarned
	s.TotalBurnPoints += w.TotalBurnPoints
	s.TotalWorkouts++
	return s
}

// ConsumeFreeze spends one streak freeze to count day without a workout.
// The state is returned unchanged with ErrNoFreezesAvailable when the
// inventory is empty.
func ConsumeFreeze(s models.ProgressionState, day time.Time) (models.ProgressionState, error) {
	if s.StreakFreezes <= 0 {
		return s, ErrNoFreezesAvailable
	}
	s.StreakFreezes--
	s.LastWorkoutDate = advanceDay(s.LastWorkoutDate, day)
	return s, nil
}

// AwardXP credits experience. Level follows automatically from XP.
func AwardXP(s models.ProgressionState, xp int) models.ProgressionState {
	s.XP += xp
	return s
}
