package engine

import (
	"testing"
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

func TestUpdatePersonalBests(t *testing.T) {
	first := models.WorkoutRecord{
		EndTime:         day(10),
		TotalBurnPoints: 20,
		DurationSeconds: 1800,
		Zones:           []models.ZoneSummary{{Zone: 5, DurationSeconds: 300}},
	}
	pb, changes := UpdatePersonalBests(models.PersonalBests{}, first)
	if len(changes) != 3 {
		t.Fatalf("first workout changes = %d, want 3", len(changes))
	}
	if pb.MaxSessionPoints != 20 || pb.LongestWorkoutSeconds != 1800 || pb.LongestPeakSeconds != 300 {
		t.Errorf("bests = %+v", pb)
	}

	// Same values later: ties keep the original dates.
	tie := first
	tie.EndTime = day(11)
	pb2, changes := UpdatePersonalBests(pb, tie)
	if len(changes) != 0 {
		t.Errorf("tie changes = %+v, want none", changes)
	}
	if !pb2.MaxSessionPointsDate.Equal(day(10)) {
		t.Errorf("tie moved date to %v", pb2.MaxSessionPointsDate)
	}

	// Only the improved metric changes.
	longer := models.WorkoutRecord{EndTime: day(12), TotalBurnPoints: 5, DurationSeconds: 2400}
	pb3, changes := UpdatePersonalBests(pb2, longer)
	if len(changes) != 1 || changes[0].Metric != MetricWorkoutDuration || changes[0].Previous != 1800 {
		t.Fatalf("changes = %+v", changes)
	}
	if pb3.MaxSessionPoints != 20 || pb3.LongestPeakSeconds != 300 {
		t.Errorf("unrelated bests decreased: %+v", pb3)
	}
	if !pb3.LongestWorkoutDate.Equal(day(12)) {
		t.Errorf("LongestWorkoutDate = %v", pb3.LongestWorkoutDate)
	}
}

// TestUpdatePersonalBestsReplay verifies that applying one workout twice
// changes state only the first time.
func TestUpdatePersonalBestsReplay(t *testing.T) {
	w := models.WorkoutRecord{EndTime: testStart, TotalBurnPoints: 9, DurationSeconds: 60}
	pb, _ := UpdatePersonalBests(models.PersonalBests{}, w)
	w.EndTime = testStart.Add(time.Hour)
	again, changes := UpdatePersonalBests(pb, w)
	if len(changes) != 0 {
		t.Errorf("replay changes = %+v", changes)
	}
	if again.MaxSessionPoints != pb.MaxSessionPoints || again.LongestWorkoutSeconds != pb.LongestWorkoutSeconds {
		t.Errorf("replay changed bests: %+v", again)
	}
}
