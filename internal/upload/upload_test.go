package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// stubDecode treats the file content as a marker instead of parsing FIT.
func stubDecode(path string) (*Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch string(data) {
	case "hr":
		return &Activity{Sport: "RUNNING", DurationSeconds: 60, Samples: []models.HeartRateSample{
			{Timestamp: "2026-03-10T17:00:00Z", HeartRate: 150},
			{Timestamp: "2026-03-10T17:01:00Z", HeartRate: 160},
		}}, nil
	case "empty":
		return &Activity{}, nil
	}
	return nil, errors.New("bad fit")
}

func TestUploaderRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.fit"), "hr")
	writeFile(t, filepath.Join(dir, "sub", "b.FIT"), "empty")
	writeFile(t, filepath.Join(dir, "c.fit"), "garbage")
	writeFile(t, filepath.Join(dir, "notes.txt"), "hr")

	var calls atomic.Int32
	var gotNotes string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var in models.WorkoutInput
		json.NewDecoder(r.Body).Decode(&in)
		if in.Notes != nil {
			gotNotes = *in.Notes
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": uuid.New(), "total_burn_points": 4, "xp_earned": 4})
	}))
	defer ts.Close()

	state, err := OpenStateDB(filepath.Join(dir, ".state"))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	user := uuid.New()
	newUploader := func() *Uploader {
		u := New(newTestClient(ts.URL), state, dir, user, false, log)
		u.decode = stubDecode
		return u
	}

	stats, err := newUploader().Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{FilesTotal: 3, FilesUploaded: 1, FilesEmpty: 1, FilesErrored: 1, SamplesSent: 2, BurnPoints: 4, XPEarned: 4}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
	if gotNotes != "Imported from a.fit (running)" {
		t.Errorf("notes = %q", gotNotes)
	}

	// A second run skips everything already recorded and retries the broken file.
	stats, err = newUploader().Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want = Stats{FilesTotal: 3, FilesSkipped: 2, FilesErrored: 1}
	if *stats != want {
		t.Errorf("second run stats = %+v, want %+v", *stats, want)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestUploaderDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.fit"), "hr")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(nil, state, dir, uuid.New(), true, slog.New(slog.NewTextHandler(io.Discard, nil)))
	u.decode = stubDecode
	stats, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SamplesSent != 2 || stats.FilesUploaded != 0 {
		t.Errorf("stats = %+v", *stats)
	}
}

func TestUploaderCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.fit"), "hr")
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := New(nil, state, dir, uuid.New(), true, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := u.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
