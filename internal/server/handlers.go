package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"app":     "PulseFit",
		"version": Version,
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if !decodeJSON(w, r, &p) {
		return
	}
	u, err := s.svc.CreateUser(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u.View())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	u, err := s.svc.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	u, err := s.svc.UpdateProfile(r.Context(), id, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

func (s *Server) handleUseStreakFreeze(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	remaining, err := s.svc.UseStreakFreeze(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "freezes_remaining": remaining})
}

func (s *Server) handleSubmitWorkout(w http.ResponseWriter, r *http.Request) {
	var in models.WorkoutInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.svc.SubmitWorkout(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	workouts, total, err := s.svc.ListWorkouts(r.Context(), id, limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts, "total": total})
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "workout")
	if !ok {
		return
	}
	workout, err := s.svc.GetWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	stats, err := s.svc.Stats(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	days, err := queryInt(r, "days", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	trends, err := s.svc.Trends(r.Context(), id, days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	board, err := s.svc.Quests(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	statuses, err := s.svc.Achievements(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": statuses})
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	earned, err := s.svc.CheckAchievements(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if earned == nil {
		earned = []engine.Achievement{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"unlocked": earned})
}

func (s *Server) handlePersonalBests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	pb, err := s.svc.PersonalBests(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pb)
}

// writeError maps service errors to HTTP statuses. Unexpected errors are
// logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, engine.ErrNoFreezesAvailable):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		status = http.StatusNotFound
	default:
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
