package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/pulsefit/internal/models"
)

func workoutAt(end time.Time, points int, zoneSecs map[int]int) models.WorkoutRecord {
	w := models.WorkoutRecord{EndTime: end, TotalBurnPoints: points}
	for z := 1; z <= 5; z++ {
		w.Zones = append(w.Zones, models.ZoneSummary{Zone: z, DurationSeconds: zoneSecs[z]})
	}
	return w
}

func TestDailyStats(t *testing.T) {
	now := day(10).Add(15 * time.Hour)
	u := models.User{ID: uuid.New(), UserProfile: testProfile()}
	u.XP = 230
	u.StreakDays = 3
	u.StreakFreezes = 1

	workouts := []models.WorkoutRecord{
		workoutAt(day(10).Add(8*time.Hour), 7, nil),
		workoutAt(day(10).Add(9*time.Hour), 6, nil),
		workoutAt(day(6), 10, nil),
		workoutAt(day(1), 100, nil),
	}
	st := DailyStats(u, workouts, now)
	if st.Today.BurnPoints != 13 || st.Today.WorkoutCount != 2 || !st.Today.TargetHit {
		t.Errorf("Today = %+v", st.Today)
	}
	if st.Week.BurnPoints != 23 || st.Week.WorkoutCount != 3 || st.Week.AvgPointsPerWorkout != 7 {
		t.Errorf("Week = %+v", st.Week)
	}
	if !st.Streak.BonusActive || st.Streak.FreezesAvailable != 1 {
		t.Errorf("Streak = %+v", st.Streak)
	}
	if st.Progress.Level != 3 || st.Progress.XPToNextLevel != 70 {
		t.Errorf("Progress = %+v", st.Progress)
	}
}

func TestTrends(t *testing.T) {
	now := day(29).Add(12 * time.Hour)
	workouts := []models.WorkoutRecord{
		workoutAt(day(29).Add(8*time.Hour), 10, map[int]int{3: 600, 4: 120}),
		workoutAt(day(29).Add(9*time.Hour), 5, map[int]int{5: 60}),
		workoutAt(day(20), 8, map[int]int{1: 30}),
		workoutAt(day(5), 50, nil),
		workoutAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 999, nil),
	}
	r := Trends(workouts, now, 30)

	if r.TotalWorkouts != 4 || r.AvgPointsPerWorkout != 73/4 {
		t.Errorf("totals = %d / %d", r.TotalWorkouts, r.AvgPointsPerWorkout)
	}
	wantDaily := []DailyPoints{{"2026-03-05", 50}, {"2026-03-20", 8}, {"2026-03-29", 15}}
	if len(r.DailyPoints) != len(wantDaily) {
		t.Fatalf("DailyPoints = %+v", r.DailyPoints)
	}
	for i, d := range wantDaily {
		if r.DailyPoints[i] != d {
			t.Errorf("DailyPoints[%d] = %+v, want %+v", i, r.DailyPoints[i], d)
		}
	}

	dist := r.ZoneDistribution["2026-03-29"]
	if dist[3] != 600 || dist[4] != 120 || dist[5] != 60 || dist[1] != 0 {
		t.Errorf("zone distribution = %v", dist)
	}

	if len(r.WeeklyPoints) != 4 {
		t.Fatalf("len(WeeklyPoints) = %d, want 4", len(r.WeeklyPoints))
	}
	last := r.WeeklyPoints[3]
	if last.Week != 0 || last.Label != "This week" || last.Points != 15 {
		t.Errorf("this week = %+v", last)
	}
	if r.WeeklyPoints[2].Label != "7 - 14 days ago" || r.WeeklyPoints[2].Points != 8 {
		t.Errorf("last week = %+v", r.WeeklyPoints[2])
	}
	// Day 5 is 24.5 days back, in the 21 - 28 bucket.
	if r.WeeklyPoints[0].Points != 50 {
		t.Errorf("oldest week = %+v", r.WeeklyPoints[0])
	}
}

func TestTrendsWeekCap(t *testing.T) {
	r := Trends(nil, testStart, 365)
	if len(r.WeeklyPoints) != 8 {
		t.Errorf("len(WeeklyPoints) = %d, want 8", len(r.WeeklyPoints))
	}
	if r.DailyPoints == nil {
		t.Error("DailyPoints should be empty, not nil")
	}
}

func TestDailyQuests(t *testing.T) {
	now := day(10).Add(20 * time.Hour)
	u := models.User{UserProfile: testProfile()}
	w1 := workoutAt(day(10).Add(7*time.Hour), 8, map[int]int{3: 500, 4: 200})
	w1.CaloriesBurned = 120
	w2 := workoutAt(day(10).Add(18*time.Hour), 6, map[int]int{4: 120, 5: 30})
	w2.CaloriesBurned = 90
	old := workoutAt(day(9), 50, map[int]int{5: 600})

	board := DailyQuests(u, []models.WorkoutRecord{w1, w2, old}, now)
	if board.Date != "2026-03-10" {
		t.Errorf("Date = %s", board.Date)
	}
	want := map[string]struct {
		progress  int
		completed bool
	}{
		"hit_target":   {14, true},
		"push_zone":    {320, true},
		"peak_zone":    {1, true},
		"active_time":  {850, false},
		"calorie_burn": {210, true},
	}
	if len(board.Quests) != len(want) {
		t.Fatalf("len(Quests) = %d", len(board.Quests))
	}
	for _, q := range board.Quests {
		w := want[q.ID]
		if q.Progress != w.progress || q.Completed != w.completed {
			t.Errorf("%s = %d/%v, want %d/%v", q.ID, q.Progress, q.Completed, w.progress, w.completed)
		}
	}
	if board.Quests[0].Target != 12 {
		t.Errorf("hit_target target = %d, want 12", board.Quests[0].Target)
	}
}
