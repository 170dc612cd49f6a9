package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/pulsefit/internal/models"
)

// EventType names a discrete announcement event.
type EventType string

const (
	EventZoneChanged         EventType = "zone_changed"
	EventTargetHit           EventType = "target_hit"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventPersonalBest        EventType = "personal_best"
)

// Event is emitted for a voice or notification layer to react to. Only the
// fields relevant to Type are set.
type Event struct {
	Type       EventType  `json:"type"`
	UserID     uuid.UUID  `json:"user_id"`
	WorkoutID  *uuid.UUID `json:"workout_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`

	FromZone      *int   `json:"from_zone,omitempty"`
	ToZone        *int   `json:"to_zone,omitempty"`
	ZoneName      string `json:"zone_name,omitempty"`
	Points        int    `json:"points,omitempty"`
	Target        int    `json:"target,omitempty"`
	AchievementID string `json:"achievement_id,omitempty"`
	Metric        string `json:"metric,omitempty"`
	Value         int    `json:"value,omitempty"`
	Previous      int    `json:"previous,omitempty"`
}

// ZoneTransitions returns a zone_changed event for the first sample and for
// every sample whose zone differs from the one before it. Samples with an
// unparseable timestamp take the time of the previous sample, or start when
// no earlier sample parsed.
func ZoneTransitions(userID uuid.UUID, samples []models.HeartRateSample, maxHR int, start time.Time) []Event {
	var events []Event
	prev := -1
	at := start.UTC()
	for _, s := range samples {
		zone := Classify(s.HeartRate, maxHR)
		if t, err := s.Time(); err == nil {
			at = t.UTC()
		}
		if zone == prev {
			continue
		}
		ev := Event{
			Type:       EventZoneChanged,
			UserID:     userID,
			OccurredAt: at,
			ToZone:     &zone,
			ZoneName:   Zones[zone].Name,
		}
		if prev >= 0 {
			from := prev
			ev.FromZone = &from
		}
		events = append(events, ev)
		prev = zone
	}
	return events
}

// WorkoutEvents builds the events that follow from scoring and applying one
// workout, in announcement order: target hit, achievements, personal bests.
func WorkoutEvents(w models.WorkoutRecord, target int, unlocked []Achievement, bests []PersonalBestChange) []Event {
	id := w.ID
	var events []Event
	if w.TargetHit {
		events = append(events, Event{
			Type:       EventTargetHit,
			UserID:     w.UserID,
			WorkoutID:  &id,
			OccurredAt: w.EndTime,
			Points:     w.TotalBurnPoints,
			Target:     target,
		})
	}
	for _, a := range unlocked {
		events = append(events, AchievementEvent(w.UserID, &id, a, w.EndTime))
	}
	for _, c := range bests {
		events = append(events, Event{
			Type:       EventPersonalBest,
			UserID:     w.UserID,
			WorkoutID:  &id,
			OccurredAt: c.SetAt,
			Metric:     c.Metric,
			Value:      c.Value,
			Previous:   c.Previous,
		})
	}
	return events
}

// AchievementEvent announces one unlock. workoutID is nil for unlocks found
// outside a workout submission.
func AchievementEvent(userID uuid.UUID, workoutID *uuid.UUID, a Achievement, at time.Time) Event {
	return Event{
		Type:          EventAchievementUnlocked,
		UserID:        userID,
		WorkoutID:     workoutID,
		OccurredAt:    at,
		AchievementID: a.ID,
		Points:        a.XPReward,
	}
}
