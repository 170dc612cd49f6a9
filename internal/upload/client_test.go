package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
)

func newTestClient(url string) *Client {
	c := NewClient(url, "secret")
	c.backoff = time.Millisecond
	return c
}

func TestSubmitWorkout(t *testing.T) {
	id := uuid.New()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/workouts" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q", got)
		}
		var in models.WorkoutInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":                id,
			"total_burn_points": len(in.Samples),
			"xp_earned":         7,
		})
	}))
	defer ts.Close()

	rec, err := newTestClient(ts.URL).SubmitWorkout(context.Background(), models.WorkoutInput{
		UserID:  uuid.New(),
		Samples: []models.HeartRateSample{{Timestamp: "2026-03-10T17:00:00Z", HeartRate: 150}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != id || rec.TotalBurnPoints != 1 || rec.XPEarned != 7 {
		t.Errorf("record = %+v", rec)
	}
}

// TestSubmitWorkoutRetries verifies that server errors are retried and
// client errors are not.
func TestSubmitWorkoutRetries(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   bool
	}{
		{"recovers after 5xx", []int{500, 503, 201}, 3, false},
		{"gives up after three 5xx", []int{500, 500, 500}, 3, true},
		{"4xx is final", []int{400}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[min(int(n)-1, len(tt.statuses)-1)]
				w.WriteHeader(status)
				if status == http.StatusCreated {
					w.Write([]byte(`{"id":"` + uuid.NewString() + `"}`))
					return
				}
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer ts.Close()

			_, err := newTestClient(ts.URL).SubmitWorkout(context.Background(), models.WorkoutInput{UserID: uuid.New()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}
