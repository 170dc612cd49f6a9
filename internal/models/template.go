package models

import (
	"time"

	"github.com/google/uuid"
)

// Segment is one step of a workout template.
type Segment struct {
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
	TargetZone      int    `json:"target_zone"`
	Description     string `json:"description,omitempty"`
}

// Template is a named sequence of target-zone segments. Built-in templates
// have string IDs and no owner; custom templates carry a UUID and a user.
type Template struct {
	ID                  string     `json:"id"`
	UserID              *uuid.UUID `json:"user_id,omitempty"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Difficulty          string     `json:"difficulty"`
	Category            string     `json:"category"`
	DurationMinutes     int        `json:"duration_minutes"`
	EstimatedBurnPoints int        `json:"estimated_burn_points"`
	Segments            []Segment  `json:"segments"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
}

// CustomTemplateInput is a request to create a user template.
type CustomTemplateInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Segments    []Segment `json:"segments"`
}
