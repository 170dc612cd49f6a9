package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordWorkout(t *testing.T) {
	beforeScored := testutil.ToFloat64(workoutsScored)
	beforePoints := testutil.ToFloat64(burnPoints)
	beforeHit := testutil.ToFloat64(targetsHit)

	RecordWorkout(15, true, 20*time.Millisecond)
	RecordWorkout(2, false, 5*time.Millisecond)

	require.InDelta(t, beforeScored+2, testutil.ToFloat64(workoutsScored), 0.0001)
	require.InDelta(t, beforePoints+17, testutil.ToFloat64(burnPoints), 0.0001)
	require.InDelta(t, beforeHit+1, testutil.ToFloat64(targetsHit), 0.0001)
}

func TestLabelledCounters(t *testing.T) {
	before := testutil.ToFloat64(achievementsUnlocked.WithLabelValues("streak_7"))
	RecordAchievement("streak_7")
	require.InDelta(t, before+1, testutil.ToFloat64(achievementsUnlocked.WithLabelValues("streak_7")), 0.0001)

	beforeOK := testutil.ToFloat64(eventsPublished.WithLabelValues("target_hit", "ok"))
	beforeErr := testutil.ToFloat64(eventsPublished.WithLabelValues("target_hit", "error"))
	RecordEventPublished("target_hit", nil)
	RecordEventPublished("target_hit", errors.New("broker down"))
	require.InDelta(t, beforeOK+1, testutil.ToFloat64(eventsPublished.WithLabelValues("target_hit", "ok")), 0.0001)
	require.InDelta(t, beforeErr+1, testutil.ToFloat64(eventsPublished.WithLabelValues("target_hit", "error")), 0.0001)
}

func TestRecordHTTPRequest(t *testing.T) {
	c := httpRequests.WithLabelValues("GET", "/api/v1/users/{id}", "200")
	before := testutil.ToFloat64(c)
	RecordHTTPRequest("GET", "/api/v1/users/{id}", 200, time.Millisecond)
	require.InDelta(t, before+1, testutil.ToFloat64(c), 0.0001)
}
