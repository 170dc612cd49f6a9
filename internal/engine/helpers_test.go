package engine

import (
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

var testStart = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// steadySamples returns n samples at hr, one every step starting at start.
func steadySamples(start time.Time, hr, n int, step time.Duration) []models.HeartRateSample {
	out := make([]models.HeartRateSample, n)
	for i := range out {
		out[i] = models.HeartRateSample{
			Timestamp: start.Add(time.Duration(i) * step).Format(time.RFC3339),
			HeartRate: hr,
		}
	}
	return out
}

func testProfile() models.UserProfile {
	return models.UserProfile{
		Name:            "Test",
		Age:             30,
		WeightKg:        70,
		HeightCm:        175,
		RestingHR:       60,
		MaxHR:           190,
		DailyBurnTarget: 12,
		NDMode:          "standard",
	}
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}
