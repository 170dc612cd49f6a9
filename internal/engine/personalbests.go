package engine

import (
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

// Personal-best metric names, as reported in PersonalBestChange.
const (
	MetricSessionPoints   = "max_session_points"
	MetricWorkoutDuration = "longest_workout_seconds"
	MetricPeakSeconds     = "longest_peak_seconds"
)

// PersonalBestChange is one metric improved by a workout.
type PersonalBestChange struct {
	Metric   string    `json:"metric"`
	Previous int       `json:"previous"`
	Value    int       `json:"value"`
	SetAt    time.Time `json:"set_at"`
}

// UpdatePersonalBests compares w against the stored maxima. A metric and its
// date change only on a strict improvement; ties leave both alone. The
// returned changes are empty when no best was broken.
func UpdatePersonalBests(pb models.PersonalBests, w models.WorkoutRecord) (models.PersonalBests, []PersonalBestChange) {
	var changes []PersonalBestChange
	at := w.EndTime

	improve := func(metric string, stored *int, date **time.Time, value int) {
		if value <= *stored {
			return
		}
		changes = append(changes, PersonalBestChange{Metric: metric, Previous: *stored, Value: value, SetAt: at})
		*stored = value
		d := at
		*date = &d
	}

	improve(MetricSessionPoints, &pb.MaxSessionPoints, &pb.MaxSessionPointsDate, w.TotalBurnPoints)
	improve(MetricWorkoutDuration, &pb.LongestWorkoutSeconds, &pb.LongestWorkoutDate, w.DurationSeconds)
	improve(MetricPeakSeconds, &pb.LongestPeakSeconds, &pb.LongestPeakDate, w.ZoneSeconds(PeakZone))
	return pb, changes
}
