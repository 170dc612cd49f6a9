package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/pulsefit/internal/models"
)

// UserTx is the read-modify-write view of one user's state inside a
// transaction that holds the user's row lock.
type UserTx interface {
	LockUser(ctx context.Context) (*models.User, error)
	SaveProgression(ctx context.Context, s models.ProgressionState) error
	InsertWorkout(ctx context.Context, w models.WorkoutRecord) error
	UnlockedIDs(ctx context.Context) (map[string]bool, error)
	InsertUnlocked(ctx context.Context, recs []models.UnlockedAchievement) error
	PersonalBests(ctx context.Context) (models.PersonalBests, error)
	SavePersonalBests(ctx context.Context, pb models.PersonalBests) error
}

// WithUserLock runs fn in a transaction. fn is expected to call LockUser
// first; the row lock is held until the transaction ends. The transaction
// commits if fn returns nil and rolls back otherwise.
func (db *DB) WithUserLock(ctx context.Context, userID uuid.UUID, fn func(UserTx) error) error {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&userTx{tx: tx, userID: userID}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type userTx struct {
	tx     pgx.Tx
	userID uuid.UUID
}

func (t *userTx) LockUser(ctx context.Context) (*models.User, error) {
	return getUser(ctx, t.tx, t.userID, true)
}

func (t *userTx) SaveProgression(ctx context.Context, s models.ProgressionState) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE users SET xp = $2, streak_days = $3, streak_freezes_available = $4,
			last_workout_date = $5, total_burn_points = $6, total_workouts = $7
		WHERE id = $1`,
		t.userID, s.XP, s.StreakDays, s.StreakFreezes, s.LastWorkoutDate, s.TotalBurnPoints, s.TotalWorkouts)
	if err != nil {
		return fmt.Errorf("saving progression: %w", err)
	}
	return nil
}

func (t *userTx) InsertWorkout(ctx context.Context, w models.WorkoutRecord) error {
	return insertWorkout(ctx, t.tx, w)
}

func (t *userTx) UnlockedIDs(ctx context.Context) (map[string]bool, error) {
	recs, err := listUnlocked(ctx, t.tx, t.userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(recs))
	for _, r := range recs {
		ids[r.AchievementID] = true
	}
	return ids, nil
}

func (t *userTx) InsertUnlocked(ctx context.Context, recs []models.UnlockedAchievement) error {
	return insertUnlocked(ctx, t.tx, recs)
}

func (t *userTx) PersonalBests(ctx context.Context) (models.PersonalBests, error) {
	return getPersonalBests(ctx, t.tx, t.userID)
}

func (t *userTx) SavePersonalBests(ctx context.Context, pb models.PersonalBests) error {
	pb.UserID = t.userID
	return savePersonalBests(ctx, t.tx, pb)
}
