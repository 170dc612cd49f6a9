package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/pulsefit/internal/models"
)

// ListUnlocked returns a user's unlocked achievements in unlock order.
func (db *DB) ListUnlocked(ctx context.Context, userID uuid.UUID) ([]models.UnlockedAchievement, error) {
	return listUnlocked(ctx, db.Pool, userID)
}

// GetPersonalBests returns a user's personal bests. A user with no workouts
// yet gets zero values.
func (db *DB) GetPersonalBests(ctx context.Context, userID uuid.UUID) (models.PersonalBests, error) {
	return getPersonalBests(ctx, db.Pool, userID)
}

func listUnlocked(ctx context.Context, q querier, userID uuid.UUID) ([]models.UnlockedAchievement, error) {
	rows, err := q.Query(ctx,
		`SELECT user_id, achievement_id, unlocked_at FROM user_achievements
		 WHERE user_id = $1 ORDER BY unlocked_at, achievement_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying achievements: %w", err)
	}
	defer rows.Close()

	var out []models.UnlockedAchievement
	for rows.Next() {
		var a models.UnlockedAchievement
		if err := rows.Scan(&a.UserID, &a.AchievementID, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// insertUnlocked records unlocks. The primary key on (user_id,
// achievement_id) makes a repeated unlock a no-op.
func insertUnlocked(ctx context.Context, q querier, recs []models.UnlockedAchievement) error {
	for _, a := range recs {
		if _, err := q.Exec(ctx,
			`INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
			 VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			a.UserID, a.AchievementID, a.UnlockedAt); err != nil {
			return fmt.Errorf("inserting achievement %s: %w", a.AchievementID, err)
		}
	}
	return nil
}

func getPersonalBests(ctx context.Context, q querier, userID uuid.UUID) (models.PersonalBests, error) {
	pb := models.PersonalBests{UserID: userID}
	err := q.QueryRow(ctx,
		`SELECT max_session_points, max_session_points_date, longest_workout_seconds, longest_workout_date,
		        longest_peak_seconds, longest_peak_date
		 FROM personal_bests WHERE user_id = $1`, userID).Scan(
		&pb.MaxSessionPoints, &pb.MaxSessionPointsDate, &pb.LongestWorkoutSeconds, &pb.LongestWorkoutDate,
		&pb.LongestPeakSeconds, &pb.LongestPeakDate)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return pb, fmt.Errorf("querying personal bests: %w", err)
	}
	return pb, nil
}

func savePersonalBests(ctx context.Context, q querier, pb models.PersonalBests) error {
	_, err := q.Exec(ctx,
		`INSERT INTO personal_bests (user_id, max_session_points, max_session_points_date,
		     longest_workout_seconds, longest_workout_date, longest_peak_seconds, longest_peak_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     max_session_points = EXCLUDED.max_session_points,
		     max_session_points_date = EXCLUDED.max_session_points_date,
		     longest_workout_seconds = EXCLUDED.longest_workout_seconds,
		     longest_workout_date = EXCLUDED.longest_workout_date,
		     longest_peak_seconds = EXCLUDED.longest_peak_seconds,
		     longest_peak_date = EXCLUDED.longest_peak_date`,
		pb.UserID, pb.MaxSessionPoints, pb.MaxSessionPointsDate,
		pb.LongestWorkoutSeconds, pb.LongestWorkoutDate, pb.LongestPeakSeconds, pb.LongestPeakDate)
	if err != nil {
		return fmt.Errorf("saving personal bests: %w", err)
	}
	return nil
}
