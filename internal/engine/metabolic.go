package engine

import (
	"math"

	"github.com/meltforce/pulsefit/internal/models"
)

// Calories estimates energy expenditure from average heart rate, weight and
// age. The regression goes negative at low heart rates; the result is
// clamped to 0.
func Calories(durationSeconds, avgHR int, weightKg float64, age int) int {
	minutes := float64(durationSeconds) / 60
	kcal := (float64(age)*0.2017 + weightKg*0.09036 + float64(avgHR)*0.6309 - 55.0969) * minutes / 4.184
	if kcal <= 0 || math.IsNaN(kcal) {
		return 0
	}
	return int(math.Floor(kcal))
}

// Afterburn estimates post-exercise calories from time in zones 4 and 5.
// Lower zones contribute nothing.
func Afterburn(zones []models.ZoneSummary, weightKg float64) int {
	var push, peak float64
	for _, z := range zones {
		switch z.Zone {
		case 4:
			push = float64(z.DurationSeconds) / 60
		case 5:
			peak = float64(z.DurationSeconds) / 60
		}
	}
	return int(math.Trunc((push*1.5 + peak*2.5) * weightKg * 0.05))
}
