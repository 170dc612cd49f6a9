//go:build integration

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/meltforce/pulsefit/internal/models"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("pulsefit"),
		postgrescontainer.WithUsername("pulsefit"),
		postgrescontainer.WithPassword("pulsefit"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var db *DB
	deadline := time.Now().Add(30 * time.Second)
	for {
		db, err = New(ctx, dsn)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	require.NoError(t, RunMigrations(dsn, filepath.Join(filepath.Dir(file), "..", "..", "migrations")))
	return db
}

func newUser() models.User {
	return models.User{
		ID: uuid.New(),
		UserProfile: models.UserProfile{
			Name:            "Ada",
			Age:             30,
			WeightKg:        70,
			HeightCm:        170,
			RestingHR:       60,
			MaxHR:           190,
			DailyBurnTarget: 12,
			NDMode:          "standard",
		},
		ProgressionState: models.ProgressionState{StreakFreezes: 1},
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestUserWorkoutRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	u := newUser()
	require.NoError(t, db.CreateUser(ctx, u))

	_, err := db.GetUser(ctx, uuid.New())
	require.True(t, errors.Is(err, ErrNotFound))

	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	notes := "legs"
	w := models.WorkoutRecord{
		ID:              uuid.New(),
		UserID:          u.ID,
		StartTime:       end.Add(-time.Minute),
		EndTime:         end,
		DurationSeconds: 60,
		TotalBurnPoints: 2,
		Zones:           []models.ZoneSummary{{Zone: 4, Name: "Push", DurationSeconds: 60, BurnPoints: 2, Color: "#f97316"}},
		AvgHR:           160,
		MaxHR:           160,
		XPEarned:        20,
		Notes:           &notes,
		Samples:         []models.HeartRateSample{{Timestamp: "2026-03-10T17:59:00Z", HeartRate: 160}},
	}

	err = db.WithUserLock(ctx, u.ID, func(tx UserTx) error {
		locked, err := tx.LockUser(ctx)
		if err != nil {
			return err
		}
		s := locked.ProgressionState
		s.XP += w.XPEarned
		s.TotalWorkouts++
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		s.LastWorkoutDate = &day
		if err := tx.InsertWorkout(ctx, w); err != nil {
			return err
		}
		return tx.SaveProgression(ctx, s)
	})
	require.NoError(t, err)

	got, err := db.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 20, got.XP)
	require.Equal(t, 1, got.TotalWorkouts)
	require.NotNil(t, got.LastWorkoutDate)
	require.Equal(t, "2026-03-10", got.LastWorkoutDate.Format("2006-01-02"))

	stored, err := db.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	require.Equal(t, w.Zones, stored.Zones)
	require.Equal(t, w.Samples, stored.Samples)
	require.Equal(t, "legs", *stored.Notes)

	page, total, err := db.ListWorkouts(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, page, 1)
	require.Nil(t, page[0].Samples)
}

// TestWithUserLockRollsBack verifies that an error from the callback
// discards every write made in the transaction.
func TestWithUserLockRollsBack(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := newUser()
	require.NoError(t, db.CreateUser(ctx, u))

	boom := errors.New("boom")
	err := db.WithUserLock(ctx, u.ID, func(tx UserTx) error {
		if _, err := tx.LockUser(ctx); err != nil {
			return err
		}
		if err := tx.SaveProgression(ctx, models.ProgressionState{XP: 500}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := db.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.XP)
}

// TestWithUserLockSerializes runs concurrent increments through the row
// lock and checks that none is lost.
func TestWithUserLockSerializes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := newUser()
	require.NoError(t, db.CreateUser(ctx, u))

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.WithUserLock(ctx, u.ID, func(tx UserTx) error {
				locked, err := tx.LockUser(ctx)
				if err != nil {
					return err
				}
				s := locked.ProgressionState
				s.XP += 10
				return tx.SaveProgression(ctx, s)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := db.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, n*10, got.XP)
}

func TestAchievementsAndBests(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := newUser()
	require.NoError(t, db.CreateUser(ctx, u))

	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	rec := models.UnlockedAchievement{UserID: u.ID, AchievementID: "first_workout", UnlockedAt: at}

	for i := 0; i < 2; i++ {
		err := db.WithUserLock(ctx, u.ID, func(tx UserTx) error {
			if err := tx.InsertUnlocked(ctx, []models.UnlockedAchievement{rec}); err != nil {
				return err
			}
			pb, err := tx.PersonalBests(ctx)
			if err != nil {
				return err
			}
			pb.MaxSessionPoints = 15
			pb.MaxSessionPointsDate = &at
			return tx.SavePersonalBests(ctx, pb)
		})
		require.NoError(t, err)
	}

	unlocked, err := db.ListUnlocked(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)

	pb, err := db.GetPersonalBests(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 15, pb.MaxSessionPoints)

	none, err := db.GetPersonalBests(ctx, uuid.New())
	require.NoError(t, err)
	require.Zero(t, none.MaxSessionPoints)
}

func TestTemplatesAndSettings(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := newUser()
	require.NoError(t, db.CreateUser(ctx, u))

	created := time.Now().UTC().Truncate(time.Microsecond)
	tpl := models.Template{
		ID:                  uuid.NewString(),
		UserID:              &u.ID,
		Name:                "Mine",
		DurationMinutes:     5,
		EstimatedBurnPoints: 10,
		Segments:            []models.Segment{{Name: "Go", DurationSeconds: 300, TargetZone: 4}},
		CreatedAt:           &created,
	}
	require.NoError(t, db.InsertTemplate(ctx, tpl))

	list, err := db.ListTemplates(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, tpl.Segments, list[0].Segments)

	require.NoError(t, db.DeleteTemplate(ctx, uuid.MustParse(tpl.ID)))
	require.ErrorIs(t, db.DeleteTemplate(ctx, uuid.MustParse(tpl.ID)), ErrNotFound)

	s, err := db.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, s)

	want := models.DefaultSettings()
	want.FontSize = "large"
	require.NoError(t, db.SaveSettings(ctx, u.ID, want))
	s, err = db.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, want, *s)
}
