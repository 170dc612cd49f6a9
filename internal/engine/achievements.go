package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/pulsefit/internal/models"
)

// RequirementKind selects which input an achievement requirement tests.
type RequirementKind int

const (
	RequireUnknown RequirementKind = iota
	// Cumulative requirements, tested against progression state alone.
	RequireWorkoutCount
	RequireStreak
	RequireLifetimePoints
	RequireTargetStreak
	// Workout-scoped requirements, skipped when no workout is given.
	RequirePeakMinutes
	RequireDurationMinutes
	RequireAllZones
	RequireBeforeHour
	RequireAfterHour
)

var requirementNames = map[RequirementKind]string{
	RequireWorkoutCount:    "workouts",
	RequireStreak:          "streak",
	RequireLifetimePoints:  "total_points",
	RequireTargetStreak:    "target_streak",
	RequirePeakMinutes:     "peak_minutes",
	RequireDurationMinutes: "duration_minutes",
	RequireAllZones:        "all_zones",
	RequireBeforeHour:      "before_hour",
	RequireAfterHour:       "after_hour",
}

func (k RequirementKind) String() string {
	if name, ok := requirementNames[k]; ok {
		return name
	}
	return "unknown"
}

// WorkoutScoped reports whether the kind needs the just-completed workout.
func (k RequirementKind) WorkoutScoped() bool {
	return k >= RequirePeakMinutes
}

// Requirement is a typed achievement condition.
type Requirement struct {
	Kind      RequirementKind
	Threshold int
}

// MarshalJSON renders the requirement as {"<kind>": threshold}, or
// {"all_zones": true}.
func (r Requirement) MarshalJSON() ([]byte, error) {
	var v any = r.Threshold
	if r.Kind == RequireAllZones {
		v = true
	}
	return json.Marshal(map[string]any{r.Kind.String(): v})
}

// UnmarshalJSON reads the form written by MarshalJSON. Unrecognised kinds
// decode as RequireUnknown.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decoding requirement: %w", err)
	}
	if len(m) != 1 {
		return fmt.Errorf("decoding requirement: want one key, got %d", len(m))
	}
	*r = Requirement{}
	for name, raw := range m {
		for k, n := range requirementNames {
			if n == name {
				r.Kind = k
			}
		}
		if r.Kind == RequireAllZones {
			r.Threshold = PeakZone
			return nil
		}
		if err := json.Unmarshal(raw, &r.Threshold); err != nil {
			return fmt.Errorf("decoding requirement %s: %w", name, err)
		}
	}
	return nil
}

// Achievement is a catalog entry.
type Achievement struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
	Requirement Requirement `json:"requirement"`
	XPReward    int         `json:"xp_reward"`
}

// Catalog is the ordered achievement catalog.
var Catalog = []Achievement{
	{ID: "first_workout", Name: "First Steps", Description: "Complete your first workout", Icon: "trophy", Category: "milestone", Requirement: Requirement{RequireWorkoutCount, 1}, XPReward: 50},
	{ID: "streak_7", Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "flame", Category: "streak", Requirement: Requirement{RequireStreak, 7}, XPReward: 100},
	{ID: "streak_30", Name: "Monthly Master", Description: "Maintain a 30-day streak", Icon: "fire", Category: "streak", Requirement: Requirement{RequireStreak, 30}, XPReward: 300},
	{ID: "streak_100", Name: "Centurion", Description: "Maintain a 100-day streak", Icon: "crown", Category: "streak", Requirement: Requirement{RequireStreak, 100}, XPReward: 1000},
	{ID: "points_1000", Name: "Burn Baby Burn", Description: "Earn 1,000 lifetime Burn Points", Icon: "zap", Category: "points", Requirement: Requirement{RequireLifetimePoints, 1000}, XPReward: 200},
	{ID: "points_10000", Name: "Inferno", Description: "Earn 10,000 lifetime Burn Points", Icon: "flame", Category: "points", Requirement: Requirement{RequireLifetimePoints, 10000}, XPReward: 500},
	{ID: "points_50000", Name: "Legendary Burner", Description: "Earn 50,000 lifetime Burn Points", Icon: "star", Category: "points", Requirement: Requirement{RequireLifetimePoints, 50000}, XPReward: 2000},
	{ID: "peak_20", Name: "Peak Performer", Description: "Spend 20+ minutes in Peak zone in one session", Icon: "mountain", Category: "workout", Requirement: Requirement{RequirePeakMinutes, 20}, XPReward: 150},
	{ID: "early_bird", Name: "Early Bird", Description: "Complete a workout before 7 AM", Icon: "sunrise", Category: "time", Requirement: Requirement{RequireBeforeHour, 7}, XPReward: 75},
	{ID: "night_owl", Name: "Night Owl", Description: "Complete a workout after 9 PM", Icon: "moon", Category: "time", Requirement: Requirement{RequireAfterHour, 21}, XPReward: 75},
	{ID: "century_club", Name: "Century Club", Description: "Log 100 workouts", Icon: "medal", Category: "milestone", Requirement: Requirement{RequireWorkoutCount, 100}, XPReward: 500},
	{ID: "perfect_week", Name: "Perfect Week", Description: "Hit your daily target 7 days in a row", Icon: "check-circle", Category: "consistency", Requirement: Requirement{RequireTargetStreak, 7}, XPReward: 200},
	{ID: "zone_master", Name: "Zone Master", Description: "Spend time in all 5 zones in one workout", Icon: "layers", Category: "workout", Requirement: Requirement{RequireAllZones, 5}, XPReward: 100},
	{ID: "marathon_session", Name: "Marathon Session", Description: "Complete a 60+ minute workout", Icon: "clock", Category: "workout", Requirement: Requirement{RequireDurationMinutes, 60}, XPReward: 150},
}

// Met reports whether the requirement holds. Workout-scoped kinds are never
// met without a workout, and unknown kinds are never met.
func (r Requirement) Met(s models.ProgressionState, w *models.WorkoutRecord) bool {
	switch r.Kind {
	case RequireWorkoutCount:
		return s.TotalWorkouts >= r.Threshold
	case RequireStreak:
		// A streak only counts days on which the daily target was hit.
		return s.StreakDays >= r.Threshold
	case RequireTargetStreak:
		// No consecutive-target counter is tracked, so perfect_week stays locked.
		return false
	case RequireLifetimePoints:
		return s.TotalBurnPoints >= r.Threshold
	}

	if w == nil || !r.Kind.WorkoutScoped() {
		return false
	}
	switch r.Kind {
	case RequirePeakMinutes:
		peak := w.ZoneSeconds(PeakZone)
		return peak > 0 && peak >= r.Threshold*60
	case RequireDurationMinutes:
		return w.DurationSeconds >= r.Threshold*60
	case RequireAllZones:
		touched := 0
		for _, z := range w.Zones {
			if z.DurationSeconds > 0 {
				touched++
			}
		}
		return touched >= r.Threshold
	case RequireBeforeHour:
		return w.EndTime.Hour() < r.Threshold
	case RequireAfterHour:
		return w.EndTime.Hour() >= r.Threshold
	default:
		return false
	}
}

// Evaluate returns, in catalog order, the achievements not in unlocked whose
// requirements now hold.
func Evaluate(catalog []Achievement, s models.ProgressionState, unlocked map[string]bool, w *models.WorkoutRecord) []Achievement {
	var earned []Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if a.Requirement.Met(s, w) {
			earned = append(earned, a)
		}
	}
	return earned
}

// Unlock records each achievement once, credits its XP reward and marks it
// in unlocked. Achievements already present in unlocked are skipped, so a
// repeated call never awards twice.
func Unlock(s models.ProgressionState, unlocked map[string]bool, earned []Achievement, userID uuid.UUID, at time.Time) (models.ProgressionState, []models.UnlockedAchievement) {
	var records []models.UnlockedAchievement
	for _, a := range earned {
		if unlocked[a.ID] {
			continue
		}
		unlocked[a.ID] = true
		s = AwardXP(s, a.XPReward)
		records = append(records, models.UnlockedAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    at,
		})
	}
	return s, records
}

// AchievementByID looks up a catalog entry.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// AchievementStatus is a catalog entry with a user's unlock state.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// AchievementStatuses merges the catalog with a user's unlock records.
func AchievementStatuses(catalog []Achievement, records []models.UnlockedAchievement) []AchievementStatus {
	at := make(map[string]time.Time, len(records))
	for _, r := range records {
		at[r.AchievementID] = r.UnlockedAt
	}
	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		st := AchievementStatus{Achievement: a}
		if t, ok := at[a.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &t
		}
		out = append(out, st)
	}
	return out
}
