package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	settings, err := s.svc.Settings(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	// Start from the current document so a partial body keeps other fields.
	settings, err := s.svc.Settings(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !decodeJSON(w, r, &settings) {
		return
	}
	saved, err := s.svc.SaveSettings(r.Context(), id, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": s.svc.Templates()})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Template(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUserTemplates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	templates, err := s.svc.UserTemplates(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	var in models.CustomTemplateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := s.svc.CreateTemplate(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"zones": engine.Zones[1:]})
}

type simulateRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	Intensity  string    `json:"intensity"`
	TargetZone int       `json:"target_zone"`
}

func (s *Server) handleSimulateHR(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}
	reading, err := s.svc.SimulateHeartRate(r.Context(), req.UserID, req.Intensity, req.TargetZone)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid format, use json or csv"})
		return
	}

	exp, err := s.svc.Export(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pulsefit_export_%s.json", id))
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exp); err != nil {
			s.log.Error("writing export", "user_id", id, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pulsefit_workouts_%s.csv", id))
	if err := writeWorkoutsCSV(w, exp.Workouts); err != nil {
		s.log.Error("writing csv export", "user_id", id, "error", err)
	}
}

func writeWorkoutsCSV(w io.Writer, workouts []models.WorkoutRecord) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Workout ID", "Date", "Duration (min)", "Burn Points", "Avg HR", "Max HR", "Calories", "Target Hit"})
	for _, wo := range workouts {
		cw.Write([]string{
			wo.ID.String(),
			wo.EndTime.UTC().Format("2006-01-02"),
			strconv.Itoa(wo.DurationSeconds / 60),
			strconv.Itoa(wo.TotalBurnPoints),
			strconv.Itoa(wo.AvgHR),
			strconv.Itoa(wo.MaxHR),
			strconv.Itoa(wo.CaloriesBurned),
			strconv.FormatBool(wo.TargetHit),
		})
	}
	cw.Flush()
	return cw.Error()
}

