package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

const (
	dayLayout     = "2006-01-02"
	maxTrendWeeks = 8
)

// TodayStats summarises the current UTC day.
type TodayStats struct {
	BurnPoints   int  `json:"burn_points"`
	Target       int  `json:"target"`
	TargetHit    bool `json:"target_hit"`
	WorkoutCount int  `json:"workout_count"`
}

// WeekStats summarises the trailing seven days.
type WeekStats struct {
	BurnPoints          int `json:"burn_points"`
	WorkoutCount        int `json:"workout_count"`
	AvgPointsPerWorkout int `json:"avg_points_per_workout"`
}

// StreakStats reports the streak and freeze inventory.
type StreakStats struct {
	Current          int  `json:"current"`
	BonusActive      bool `json:"bonus_active"`
	FreezesAvailable int  `json:"freezes_available"`
}

// ProgressStats reports experience and level.
type ProgressStats struct {
	XP            int `json:"xp"`
	Level         int `json:"level"`
	XPToNextLevel int `json:"xp_to_next_level"`
}

// LifetimeStats reports lifetime totals.
type LifetimeStats struct {
	TotalBurnPoints int `json:"total_burn_points"`
	TotalWorkouts   int `json:"total_workouts"`
}

// Stats is the dashboard summary for one user.
type Stats struct {
	UserID   string        `json:"user_id"`
	Today    TodayStats    `json:"today"`
	Week     WeekStats     `json:"week"`
	Streak   StreakStats   `json:"streak"`
	Progress ProgressStats `json:"progress"`
	Lifetime LifetimeStats `json:"lifetime"`
}

func sameDay(a, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

// DailyStats builds the dashboard summary. recent must hold at least the
// workouts that ended in the last seven days; older ones are ignored.
func DailyStats(u models.User, recent []models.WorkoutRecord, now time.Time) Stats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	st := Stats{
		UserID: u.ID.String(),
		Today:  TodayStats{Target: u.DailyBurnTarget},
		Streak: StreakStats{
			Current:          u.StreakDays,
			BonusActive:      LoyaltyBonusActive(u.StreakDays),
			FreezesAvailable: u.StreakFreezes,
		},
		Progress: ProgressStats{
			XP:            u.XP,
			Level:         Level(u.XP),
			XPToNextLevel: xpPerLevel - u.XP%xpPerLevel,
		},
		Lifetime: LifetimeStats{
			TotalBurnPoints: u.TotalBurnPoints,
			TotalWorkouts:   u.TotalWorkouts,
		},
	}
	for _, w := range recent {
		if sameDay(w.EndTime, now) {
			st.Today.BurnPoints += w.TotalBurnPoints
			st.Today.WorkoutCount++
		}
		if !w.EndTime.Before(weekAgo) {
			st.Week.BurnPoints += w.TotalBurnPoints
			st.Week.WorkoutCount++
		}
	}
	st.Today.TargetHit = st.Today.BurnPoints >= u.DailyBurnTarget
	if st.Week.WorkoutCount > 0 {
		st.Week.AvgPointsPerWorkout = st.Week.BurnPoints / st.Week.WorkoutCount
	}
	return st
}

// DailyPoints is the points total for one UTC day.
type DailyPoints struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// WeeklyPoints is the points total for one trailing seven-day bucket.
type WeeklyPoints struct {
	Week   int    `json:"week"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// TrendReport is chart data over a trailing window.
type TrendReport struct {
	DailyPoints         []DailyPoints          `json:"daily_points"`
	WeeklyPoints        []WeeklyPoints         `json:"weekly_points"`
	ZoneDistribution    map[string]map[int]int `json:"zone_distribution"`
	TotalWorkouts       int                    `json:"total_workouts"`
	AvgPointsPerWorkout int                    `json:"avg_points_per_workout"`
}

// Trends rolls up the workouts that ended within the last days days.
// Weekly buckets run oldest first and cover min(8, days/7) weeks.
func Trends(workouts []models.WorkoutRecord, now time.Time, days int) TrendReport {
	from := now.Add(-time.Duration(days) * 24 * time.Hour)
	daily := map[string]int{}
	report := TrendReport{ZoneDistribution: map[string]map[int]int{}}
	total := 0

	var window []models.WorkoutRecord
	for _, w := range workouts {
		if w.EndTime.Before(from) {
			continue
		}
		window = append(window, w)
		date := w.EndTime.UTC().Format(dayLayout)
		daily[date] += w.TotalBurnPoints
		total += w.TotalBurnPoints

		dist, ok := report.ZoneDistribution[date]
		if !ok {
			dist = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
			report.ZoneDistribution[date] = dist
		}
		for _, z := range w.Zones {
			if z.Zone >= 1 && z.Zone <= PeakZone {
				dist[z.Zone] += z.DurationSeconds
			}
		}
	}

	report.DailyPoints = make([]DailyPoints, 0, len(daily))
	for date, pts := range daily {
		report.DailyPoints = append(report.DailyPoints, DailyPoints{Date: date, Points: pts})
	}
	sort.Slice(report.DailyPoints, func(i, j int) bool {
		return report.DailyPoints[i].Date < report.DailyPoints[j].Date
	})

	weeks := min(maxTrendWeeks, days/7)
	report.WeeklyPoints = make([]WeeklyPoints, weeks)
	for i := 0; i < weeks; i++ {
		start := now.Add(-time.Duration((i+1)*7) * 24 * time.Hour)
		end := now.Add(-time.Duration(i*7) * 24 * time.Hour)
		bucket := WeeklyPoints{Week: i, Label: "This week"}
		if i > 0 {
			bucket.Label = fmt.Sprintf("%d - %d days ago", i*7, (i+1)*7)
		}
		for _, w := range window {
			if !w.EndTime.Before(start) && w.EndTime.Before(end) {
				bucket.Points += w.TotalBurnPoints
			}
		}
		report.WeeklyPoints[weeks-1-i] = bucket
	}

	report.TotalWorkouts = len(window)
	if len(window) > 0 {
		report.AvgPointsPerWorkout = total / len(window)
	}
	return report
}

// Quest is a daily goal derived from today's workouts.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	Completed   bool   `json:"completed"`
}

// QuestBoard is the set of quests for one UTC day.
type QuestBoard struct {
	Quests []Quest `json:"quests"`
	Date   string  `json:"date"`
}

const (
	pushQuestSeconds   = 300
	activeQuestSeconds = 900
	calorieQuestKcal   = 200
)

// DailyQuests evaluates the fixed quest set against the workouts that ended
// on now's UTC day. Quests are informational and credit no experience.
func DailyQuests(u models.User, workouts []models.WorkoutRecord, now time.Time) QuestBoard {
	var points, push, activePlus, kcal int
	peak := 0
	for _, w := range workouts {
		if !sameDay(w.EndTime, now) {
			continue
		}
		points += w.TotalBurnPoints
		kcal += w.CaloriesBurned
		for _, z := range w.Zones {
			if z.Zone == 4 {
				push += z.DurationSeconds
			}
			if z.Zone == PeakZone && z.DurationSeconds > 0 {
				peak = 1
			}
			if z.Zone >= 3 {
				activePlus += z.DurationSeconds
			}
		}
	}

	target := u.DailyBurnTarget
	quest := func(id, title, desc string, xp, progress, goal int) Quest {
		return Quest{ID: id, Title: title, Description: desc, XPReward: xp, Progress: progress, Target: goal, Completed: progress >= goal}
	}
	return QuestBoard{
		Date: CalendarDay(now).Format(dayLayout),
		Quests: []Quest{
			quest("hit_target", "Daily Burner", fmt.Sprintf("Earn %d Burn Points today", target), 25, points, target),
			quest("push_zone", "Push It", "Spend 5 minutes in Push zone", 15, push, pushQuestSeconds),
			quest("peak_zone", "Peak Performance", "Reach Peak zone at least once", 10, peak, 1),
			quest("active_time", "Stay Active", "Spend 15 minutes in Active zone or above", 20, activePlus, activeQuestSeconds),
			quest("calorie_burn", "Calorie Crusher", "Burn 200 calories", 15, kcal, calorieQuestKcal),
		},
	}
}
