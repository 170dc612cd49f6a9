package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/pulsefit/internal/models"
)

const userColumns = `id, name, age, weight_kg, height_cm, resting_hr, max_hr, daily_burn_target, nd_mode,
	xp, streak_days, streak_freezes_available, last_workout_date, total_burn_points, total_workouts, created_at`

// CreateUser inserts a new user with its initial progression state.
func (db *DB) CreateUser(ctx context.Context, u models.User) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		u.ID, u.Name, u.Age, u.WeightKg, u.HeightCm, u.RestingHR, u.MaxHR, u.DailyBurnTarget, u.NDMode,
		u.XP, u.StreakDays, u.StreakFreezes, u.LastWorkoutDate, u.TotalBurnPoints, u.TotalWorkouts, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUser returns a user by ID, or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return getUser(ctx, db.Pool, id, false)
}

// UpdateProfile overwrites the profile fields of a user. Progression
// fields are untouched.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, p models.UserProfile) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE users SET name = $2, age = $3, weight_kg = $4, height_cm = $5, resting_hr = $6,
			max_hr = $7, daily_burn_target = $8, nd_mode = $9
		WHERE id = $1`,
		id, p.Name, p.Age, p.WeightKg, p.HeightCm, p.RestingHR, p.MaxHR, p.DailyBurnTarget, p.NDMode)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func getUser(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var u models.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Age, &u.WeightKg, &u.HeightCm, &u.RestingHR, &u.MaxHR, &u.DailyBurnTarget, &u.NDMode,
		&u.XP, &u.StreakDays, &u.StreakFreezes, &u.LastWorkoutDate, &u.TotalBurnPoints, &u.TotalWorkouts, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", notFound(err))
	}
	return &u, nil
}
