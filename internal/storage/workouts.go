package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/pulsefit/internal/models"
)

const workoutColumns = `id, user_id, start_time, end_time, duration_seconds, total_burn_points, zones,
	avg_hr, max_hr, calories_burned, afterburn_estimate, target_hit, xp_earned, notes, template_id, template_name`

func insertWorkout(ctx context.Context, q querier, w models.WorkoutRecord) error {
	zones, err := json.Marshal(w.Zones)
	if err != nil {
		return fmt.Errorf("encoding zones: %w", err)
	}
	samples := w.Samples
	if samples == nil {
		samples = []models.HeartRateSample{}
	}
	raw, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO workouts (`+workoutColumns+`, hr_samples)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		w.ID, w.UserID, w.StartTime, w.EndTime, w.DurationSeconds, w.TotalBurnPoints, zones,
		w.AvgHR, w.MaxHR, w.CaloriesBurned, w.AfterburnEstimate, w.TargetHit, w.XPEarned,
		w.Notes, w.TemplateID, w.TemplateName, raw)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a single workout, including its samples.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRecord, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+`, hr_samples FROM workouts WHERE id = $1`, id)

	var (
		w              models.WorkoutRecord
		zones, samples []byte
	)
	err := row.Scan(&w.ID, &w.UserID, &w.StartTime, &w.EndTime, &w.DurationSeconds, &w.TotalBurnPoints, &zones,
		&w.AvgHR, &w.MaxHR, &w.CaloriesBurned, &w.AfterburnEstimate, &w.TargetHit, &w.XPEarned,
		&w.Notes, &w.TemplateID, &w.TemplateName, &samples)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", notFound(err))
	}
	if err := json.Unmarshal(zones, &w.Zones); err != nil {
		return nil, fmt.Errorf("decoding zones: %w", err)
	}
	if err := json.Unmarshal(samples, &w.Samples); err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}
	return &w, nil
}

// ListWorkouts returns a page of a user's workouts, newest first, without
// samples, plus the user's total workout count.
func (db *DB) ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1
		 ORDER BY end_time DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	workouts, err := scanWorkoutRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workouts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting workouts: %w", err)
	}
	return workouts, total, nil
}

// WorkoutsSince returns a user's workouts that ended at or after since,
// oldest first, without samples.
func (db *DB) WorkoutsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND end_time >= $2
		 ORDER BY end_time ASC`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

func scanWorkoutRows(rows pgx.Rows) ([]models.WorkoutRecord, error) {
	result := []models.WorkoutRecord{}
	for rows.Next() {
		var (
			w     models.WorkoutRecord
			zones []byte
		)
		if err := rows.Scan(&w.ID, &w.UserID, &w.StartTime, &w.EndTime, &w.DurationSeconds, &w.TotalBurnPoints, &zones,
			&w.AvgHR, &w.MaxHR, &w.CaloriesBurned, &w.AfterburnEstimate, &w.TargetHit, &w.XPEarned,
			&w.Notes, &w.TemplateID, &w.TemplateName); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if err := json.Unmarshal(zones, &w.Zones); err != nil {
			return nil, fmt.Errorf("decoding zones: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
