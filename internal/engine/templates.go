package engine

import "github.com/meltforce/pulsefit/internal/models"

func seg(name string, seconds, zone int, desc string) models.Segment {
	return models.Segment{Name: name, DurationSeconds: seconds, TargetZone: zone, Description: desc}
}

// BuiltInTemplates are the shipped workout templates. They label workouts
// and never affect scoring.
var BuiltInTemplates = []models.Template{
	{
		ID: "hiit_blast", Name: "HIIT Blast",
		Description: "High-intensity intervals for maximum calorie burn",
		Difficulty:  "hard", Category: "hiit", DurationMinutes: 20, EstimatedBurnPoints: 25,
		Segments: []models.Segment{
			seg("Warm-Up", 180, 2, "Light movement"),
			seg("Sprint 1", 60, 5, "All out effort!"),
			seg("Recover", 90, 3, "Active recovery"),
			seg("Sprint 2", 60, 5, "Push hard!"),
			seg("Recover", 90, 3, "Keep moving"),
			seg("Sprint 3", 60, 5, "You got this!"),
			seg("Recover", 90, 3, "Breathe"),
			seg("Sprint 4", 60, 5, "Final push!"),
			seg("Cool Down", 240, 2, "Slow it down"),
		},
	},
	{
		ID: "endurance_builder", Name: "Endurance Builder",
		Description: "Steady-state cardio to build aerobic base",
		Difficulty:  "moderate", Category: "endurance", DurationMinutes: 30, EstimatedBurnPoints: 20,
		Segments: []models.Segment{
			seg("Warm-Up", 300, 2, "Easy pace"),
			seg("Build", 300, 3, "Find your rhythm"),
			seg("Sustain", 600, 4, "Hold this pace"),
			seg("Push", 300, 4, "Slight increase"),
			seg("Cool Down", 300, 2, "Wind down"),
		},
	},
	{
		ID: "interval_burner", Name: "30-Min Interval Burner",
		Description: "Classic interval training with push and recovery phases",
		Difficulty:  "moderate", Category: "interval", DurationMinutes: 30, EstimatedBurnPoints: 22,
		Segments: []models.Segment{
			seg("Warm-Up", 300, 2, "Get ready"),
			seg("Push Block", 240, 4, "Push pace"),
			seg("Active Recovery", 120, 3, "Recover"),
			seg("Push Block", 240, 4, "Push again"),
			seg("Active Recovery", 120, 3, "Recover"),
			seg("Peak Effort", 120, 5, "Max effort!"),
			seg("Active Recovery", 120, 3, "Breathe"),
			seg("Push Block", 240, 4, "Final push block"),
			seg("Peak Effort", 60, 5, "Finish strong!"),
			seg("Cool Down", 240, 2, "Great job!"),
		},
	},
	{
		ID: "easy_recovery", Name: "Easy Recovery",
		Description: "Light movement for active recovery days",
		Difficulty:  "easy", Category: "recovery", DurationMinutes: 20, EstimatedBurnPoints: 8,
		Segments: []models.Segment{
			seg("Gentle Start", 300, 1, "Very easy"),
			seg("Light Movement", 600, 2, "Stay relaxed"),
			seg("Easy Pace", 300, 3, "Comfortable effort"),
			seg("Wind Down", 300, 2, "Slow down"),
		},
	},
	{
		ID: "peak_chaser", Name: "Peak Chaser",
		Description: "Push your limits with sustained high-intensity work",
		Difficulty:  "hard", Category: "hiit", DurationMinutes: 25, EstimatedBurnPoints: 30,
		Segments: []models.Segment{
			seg("Warm-Up", 300, 2, "Prepare yourself"),
			seg("Build Up", 180, 3, "Building intensity"),
			seg("Push", 180, 4, "Getting hot"),
			seg("Peak Zone", 120, 5, "Max effort!"),
			seg("Brief Recovery", 60, 3, "Quick breath"),
			seg("Peak Zone", 120, 5, "Push through!"),
			seg("Brief Recovery", 60, 3, "Almost there"),
			seg("Final Peak", 180, 5, "Give it all!"),
			seg("Cool Down", 300, 2, "You crushed it!"),
		},
	},
	{
		ID: "quick_burn", Name: "Quick 15-Min Burn",
		Description: "Short but effective workout when time is limited",
		Difficulty:  "moderate", Category: "interval", DurationMinutes: 15, EstimatedBurnPoints: 12,
		Segments: []models.Segment{
			seg("Quick Warm-Up", 120, 2, "Get moving"),
			seg("Push", 180, 4, "Work hard"),
			seg("Recover", 60, 3, "Brief rest"),
			seg("Push", 180, 4, "Keep going"),
			seg("Peak", 60, 5, "All out!"),
			seg("Recover", 60, 3, "Breathe"),
			seg("Final Push", 120, 4, "Finish strong"),
			seg("Cool Down", 120, 2, "Done!"),
		},
	},
}

// BuiltInTemplate looks up a shipped template by id.
func BuiltInTemplate(id string) (models.Template, bool) {
	for _, t := range BuiltInTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return models.Template{}, false
}

// NewCustomTemplate derives duration and estimated points for a user
// template. ID, owner and creation time are assigned by the caller.
func NewCustomTemplate(in models.CustomTemplateInput) models.Template {
	total := 0
	for _, s := range in.Segments {
		total += s.DurationSeconds
	}
	return models.Template{
		Name:                in.Name,
		Description:         in.Description,
		Difficulty:          "custom",
		Category:            "custom",
		DurationMinutes:     total / 60,
		EstimatedBurnPoints: EstimateTemplatePoints(in.Segments),
		Segments:            in.Segments,
	}
}
