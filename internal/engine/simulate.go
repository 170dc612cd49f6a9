package engine

import (
	"math"

	"github.com/meltforce/pulsefit/internal/models"
)

// Rand is the random source used by SimulateHeartRate. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

var intensityRanges = map[string][2]float64{
	"easy":     {0.50, 0.70},
	"moderate": {0.60, 0.85},
	"hard":     {0.75, 0.95},
	"interval": {0.55, 0.95},
}

// SimulatedReading is one synthetic heart-rate reading.
type SimulatedReading struct {
	HeartRate       int     `json:"heart_rate"`
	Zone            int     `json:"zone"`
	ZoneName        string  `json:"zone_name"`
	ZoneColor       string  `json:"zone_color"`
	PointsPerMinute int     `json:"points_per_minute"`
	MaxHR           int     `json:"max_hr"`
	HRPercentage    float64 `json:"hr_percentage"`
}

// SimulateHeartRate produces a plausible reading for demo clients. A
// non-zero targetZone aims for that zone's range (unknown zones fall back to
// zone 3); otherwise intensity picks the range, defaulting to moderate. The
// result is clamped to [resting HR, max HR].
func SimulateHeartRate(p models.UserProfile, intensity string, targetZone int, rng Rand) SimulatedReading {
	maxHR := p.EffectiveMaxHR()

	var lo, hi float64
	if targetZone != 0 {
		z, ok := ZoneFor(targetZone)
		if !ok {
			z = Zones[3]
		}
		lo, hi = z.MinPct/100, z.MaxPct/100
	} else {
		r, ok := intensityRanges[intensity]
		if !ok {
			r = intensityRanges["moderate"]
		}
		lo, hi = r[0], r[1]
	}

	base := int(float64(maxHR) * (lo + hi) / 2)
	variation := max(0, int(float64(maxHR)*(hi-lo)/4))
	hr := base + rng.IntN(2*variation+1) - variation
	hr = max(p.RestingHR, min(maxHR, hr))

	zone := Classify(hr, maxHR)
	z := Zones[zone]
	pct := 0.0
	if maxHR > 0 {
		pct = math.Round(float64(hr)/float64(maxHR)*1000) / 10
	}
	return SimulatedReading{
		HeartRate:       hr,
		Zone:            zone,
		ZoneName:        z.Name,
		ZoneColor:       z.Color,
		PointsPerMinute: z.PointsPerMin,
		MaxHR:           maxHR,
		HRPercentage:    pct,
	}
}
