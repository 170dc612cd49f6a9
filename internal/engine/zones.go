// Package engine scores heart-rate workouts and applies their outcome to a
// user's progression: zones, burn points, calories, streaks, experience,
// achievements and personal bests. Everything here is synchronous and free
// of I/O; persistence and locking belong to the caller.
package engine

// Zone is one row of the static zone table.
type Zone struct {
	ID           int     `json:"zone"`
	Name         string  `json:"name"`
	MinPct       float64 `json:"min_pct"`
	MaxPct       float64 `json:"max_pct"`
	PointsPerMin int     `json:"points"`
	Color        string  `json:"color"`
}

// Zones is the ordered zone table. Ranges are [MinPct, MaxPct); zone 5 is
// open-ended above 92%. Point rates never decrease with zone index.
var Zones = [6]Zone{
	{ID: 0, Name: "Below", MinPct: 0, MaxPct: 50, PointsPerMin: 0, Color: "#71717a"},
	{ID: 1, Name: "Rest", MinPct: 50, MaxPct: 60, PointsPerMin: 0, Color: "#71717a"},
	{ID: 2, Name: "Warm-Up", MinPct: 60, MaxPct: 70, PointsPerMin: 0, Color: "#3b82f6"},
	{ID: 3, Name: "Active", MinPct: 70, MaxPct: 84, PointsPerMin: 1, Color: "#22c55e"},
	{ID: 4, Name: "Push", MinPct: 84, MaxPct: 92, PointsPerMin: 2, Color: "#f97316"},
	{ID: 5, Name: "Peak", MinPct: 92, MaxPct: 100, PointsPerMin: 3, Color: "#ef4444"},
}

// PeakZone is the highest-intensity zone.
const PeakZone = 5

// ZoneFor returns the table entry for id.
func ZoneFor(id int) (Zone, bool) {
	if id < 0 || id >= len(Zones) {
		return Zone{}, false
	}
	return Zones[id], true
}

// Classify maps a heart rate to a zone using its percentage of maxHR.
// A non-positive maxHR yields zone 0.
func Classify(heartRate, maxHR int) int {
	if maxHR <= 0 {
		return 0
	}
	pct := float64(heartRate) / float64(maxHR) * 100
	switch {
	case pct < 50:
		return 0
	case pct < 60:
		return 1
	case pct < 70:
		return 2
	case pct < 84:
		return 3
	case pct < 92:
		return 4
	default:
		return 5
	}
}
