package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HeartRateSample is one heart-rate reading as received from a client.
// The timestamp is kept verbatim; see Time for parsing.
type HeartRateSample struct {
	Timestamp string `json:"timestamp"`
	HeartRate int    `json:"heart_rate"`
}

var sampleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Time parses the sample timestamp. Zone-less timestamps are read as UTC.
func (s HeartRateSample) Time() (time.Time, error) {
	ts := strings.TrimSpace(s.Timestamp)
	if ts == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range sampleLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s.Timestamp)
}

// ZoneSummary is the time and points earned in one zone during a workout.
type ZoneSummary struct {
	Zone            int    `json:"zone"`
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
	BurnPoints      int    `json:"burn_points"`
	Color           string `json:"color"`
}

// WorkoutRecord is a scored workout session.
type WorkoutRecord struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"user_id"`
	StartTime         time.Time         `json:"start_time"`
	EndTime           time.Time         `json:"end_time"`
	DurationSeconds   int               `json:"duration_seconds"`
	TotalBurnPoints   int               `json:"total_burn_points"`
	Zones             []ZoneSummary     `json:"zones"`
	AvgHR             int               `json:"avg_hr"`
	MaxHR             int               `json:"max_hr"`
	CaloriesBurned    int               `json:"calories_burned"`
	AfterburnEstimate int               `json:"afterburn_estimate"`
	TargetHit         bool              `json:"target_hit"`
	XPEarned          int               `json:"xp_earned"`
	Notes             *string           `json:"notes"`
	TemplateID        *string           `json:"template_id,omitempty"`
	TemplateName      *string           `json:"template_name"`
	Samples           []HeartRateSample `json:"hr_samples,omitempty"`
}

// ZoneSeconds returns the seconds recorded for zone, or 0 if absent.
func (w WorkoutRecord) ZoneSeconds(zone int) int {
	for _, z := range w.Zones {
		if z.Zone == zone {
			return z.DurationSeconds
		}
	}
	return 0
}

// WorkoutInput is a workout submission.
type WorkoutInput struct {
	UserID          uuid.UUID         `json:"user_id"`
	Samples         []HeartRateSample `json:"hr_samples"`
	DurationSeconds int               `json:"duration_seconds"`
	Notes           *string           `json:"notes,omitempty"`
	TemplateID      *string           `json:"template_id,omitempty"`
}
