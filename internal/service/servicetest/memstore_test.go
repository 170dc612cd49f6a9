package servicetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/storage"
)

// TestWithUserLockRollsBackOnError verifies that every write made inside a
// failed callback is undone, while another user's data is left alone.
func TestWithUserLockRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	user := models.User{ID: uuid.New(), ProgressionState: models.ProgressionState{XP: 40, TotalWorkouts: 2}}
	other := models.User{ID: uuid.New()}
	for _, u := range []models.User{user, other} {
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	otherWorkout := models.WorkoutRecord{ID: uuid.New(), UserID: other.ID, EndTime: time.Now()}
	if err := s.WithUserLock(ctx, other.ID, func(tx storage.UserTx) error {
		return tx.InsertWorkout(ctx, otherWorkout)
	}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.WithUserLock(ctx, user.ID, func(tx storage.UserTx) error {
		if err := tx.SaveProgression(ctx, models.ProgressionState{XP: 999, TotalWorkouts: 3}); err != nil {
			return err
		}
		if err := tx.InsertWorkout(ctx, models.WorkoutRecord{ID: uuid.New(), UserID: user.ID, EndTime: time.Now()}); err != nil {
			return err
		}
		if err := tx.InsertUnlocked(ctx, []models.UnlockedAchievement{{UserID: user.ID, AchievementID: "first_workout"}}); err != nil {
			return err
		}
		if err := tx.SavePersonalBests(ctx, models.PersonalBests{UserID: user.ID, MaxSessionPoints: 50}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.XP != 40 || got.TotalWorkouts != 2 {
		t.Errorf("progression = %+v, want the pre-transaction state", got.ProgressionState)
	}
	if _, total, _ := s.ListWorkouts(ctx, user.ID, 10, 0); total != 0 {
		t.Errorf("workouts = %d, want 0", total)
	}
	if recs, _ := s.ListUnlocked(ctx, user.ID); len(recs) != 0 {
		t.Errorf("unlocked = %v, want none", recs)
	}
	if pb, _ := s.GetPersonalBests(ctx, user.ID); pb.MaxSessionPoints != 0 {
		t.Errorf("personal bests = %+v, want empty", pb)
	}
	if _, err := s.GetWorkout(ctx, otherWorkout.ID); err != nil {
		t.Errorf("other user's workout lost: %v", err)
	}
}

func TestWithUserLockCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	user := models.User{ID: uuid.New()}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatal(err)
	}

	err := s.WithUserLock(ctx, user.ID, func(tx storage.UserTx) error {
		if err := tx.SaveProgression(ctx, models.ProgressionState{XP: 15, TotalWorkouts: 1}); err != nil {
			return err
		}
		return tx.InsertWorkout(ctx, models.WorkoutRecord{ID: uuid.New(), UserID: user.ID, EndTime: time.Now()})
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetUser(ctx, user.ID)
	if got.XP != 15 || got.TotalWorkouts != 1 {
		t.Errorf("progression = %+v", got.ProgressionState)
	}
	if _, total, _ := s.ListWorkouts(ctx, user.ID, 10, 0); total != 1 {
		t.Errorf("workouts = %d, want 1", total)
	}
}
