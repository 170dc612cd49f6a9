package engine

import (
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

// ScoreInput is everything needed to score one session besides the profile.
type ScoreInput struct {
	Samples         []models.HeartRateSample
	DurationSeconds int
	EndTime         time.Time
	TemplateID      *string
	TemplateName    *string
	Notes           *string
}

// Score runs the scoring pipeline for one session: aggregation, metabolic
// estimates and the daily-target check. XPEarned is left at zero; it depends
// on progression state and is set by the caller via WorkoutXP.
// A zero DurationSeconds defaults to the seconds attributed to samples.
func Score(p models.UserProfile, in ScoreInput) models.WorkoutRecord {
	maxHR := p.EffectiveMaxHR()
	session := Aggregate(in.Samples, maxHR)

	duration := in.DurationSeconds
	if duration <= 0 {
		duration = session.AttributedSeconds()
	}
	end := in.EndTime.UTC()

	return models.WorkoutRecord{
		StartTime:         end.Add(-time.Duration(duration) * time.Second),
		EndTime:           end,
		DurationSeconds:   duration,
		TotalBurnPoints:   session.TotalPoints,
		Zones:             session.Zones,
		AvgHR:             session.AvgHR,
		MaxHR:             session.PeakHR,
		CaloriesBurned:    Calories(duration, session.AvgHR, p.WeightKg, p.Age),
		AfterburnEstimate: Afterburn(session.Zones, p.WeightKg),
		TargetHit:         session.TotalPoints >= p.DailyBurnTarget,
		Notes:             in.Notes,
		TemplateID:        in.TemplateID,
		TemplateName:      in.TemplateName,
		Samples:           in.Samples,
	}
}

// EstimateTemplatePoints is the burn points a template would earn if every
// segment were held exactly in its target zone.
func EstimateTemplatePoints(segments []models.Segment) int {
	total := 0
	for _, s := range segments {
		z, ok := ZoneFor(s.TargetZone)
		if !ok {
			continue
		}
		total += s.DurationSeconds / 60 * z.PointsPerMin
	}
	return total
}
