// Package observability holds the Prometheus collectors for scoring and
// progression.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsScored = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "scoring",
		Name:      "workouts_scored_total",
		Help:      "Workouts scored and persisted.",
	})
	burnPoints = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "scoring",
		Name:      "burn_points_total",
		Help:      "Burn points awarded across all workouts.",
	})
	targetsHit = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "scoring",
		Name:      "daily_targets_hit_total",
		Help:      "Workouts that reached the user's daily burn target.",
	})
	scoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pulsefit",
		Subsystem: "scoring",
		Name:      "submit_duration_seconds",
		Help:      "Time to score a workout and apply it to progression, including storage.",
		Buckets:   prometheus.DefBuckets,
	})
	achievementsUnlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "progression",
		Name:      "achievements_unlocked_total",
		Help:      "Achievements unlocked, by achievement id.",
	}, []string{"achievement"})
	personalBests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "progression",
		Name:      "personal_bests_total",
		Help:      "Personal bests broken, by metric.",
	}, []string{"metric"})
	freezesUsed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "progression",
		Name:      "streak_freezes_used_total",
		Help:      "Streak freezes consumed.",
	})
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Announcement events published, by type and outcome.",
	}, []string{"type", "outcome"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsefit",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method, route pattern and status code.",
	}, []string{"method", "route", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pulsefit",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(workoutsScored, burnPoints, targetsHit, scoringDuration,
		achievementsUnlocked, personalBests, freezesUsed, eventsPublished,
		httpRequests, httpDuration)
}

// RecordWorkout counts one scored workout.
func RecordWorkout(points int, targetHit bool, elapsed time.Duration) {
	workoutsScored.Inc()
	burnPoints.Add(float64(points))
	if targetHit {
		targetsHit.Inc()
	}
	scoringDuration.Observe(elapsed.Seconds())
}

// RecordAchievement counts one unlock.
func RecordAchievement(id string) {
	achievementsUnlocked.WithLabelValues(id).Inc()
}

// RecordPersonalBest counts one broken personal best.
func RecordPersonalBest(metric string) {
	personalBests.WithLabelValues(metric).Inc()
}

// RecordFreezeUsed counts one consumed streak freeze.
func RecordFreezeUsed() {
	freezesUsed.Inc()
}

// RecordEventPublished counts one publish attempt.
func RecordEventPublished(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	eventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// RecordHTTPRequest counts one served request. route is the router pattern,
// not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
