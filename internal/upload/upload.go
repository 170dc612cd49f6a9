package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesEmpty    int
	FilesErrored  int

	SamplesSent int
	BurnPoints  int
	XPEarned    int
}

// Uploader walks a directory of FIT activities, converts their heart-rate
// records into samples, and submits each as a workout for one user.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	userID uuid.UUID
	dryRun bool
	log    *slog.Logger
	stats  Stats

	decode func(path string) (*Activity, error)
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, userID uuid.UUID, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		userID: userID,
		dryRun: dryRun,
		log:    log,
		decode: DecodeFITFile,
	}
}

// Run executes the upload pipeline. Per-file failures are counted and
// logged; only a cancelled context stops the run early.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := findFITFiles(u.dir)
	if err != nil {
		return &u.stats, fmt.Errorf("listing %s: %w", u.dir, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.processFile(ctx, f); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}

	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	relPath, err := filepath.Rel(u.dir, path)
	if err != nil {
		relPath = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	user := u.userID.String()
	uploaded, err := u.state.IsUploaded(relPath, user, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state check: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	activity, err := u.decode(path)
	if err != nil {
		return err
	}

	// Files without heart-rate data are remembered so they are not re-read.
	if len(activity.Samples) == 0 {
		u.stats.FilesEmpty++
		if !u.dryRun {
			_ = u.state.MarkUploaded(relPath, user, info.Size(), hash, "")
		}
		return nil
	}

	notes := "Imported from " + filepath.Base(path)
	if activity.Sport != "" {
		notes += " (" + strings.ToLower(activity.Sport) + ")"
	}
	in := models.WorkoutInput{
		UserID:          u.userID,
		Samples:         activity.Samples,
		DurationSeconds: activity.DurationSeconds,
		Notes:           &notes,
	}

	if u.dryRun {
		u.log.Info("dry-run: would submit", "file", relPath, "samples", len(in.Samples), "duration_s", in.DurationSeconds)
		u.stats.SamplesSent += len(in.Samples)
		return nil
	}

	rec, err := u.client.SubmitWorkout(ctx, in)
	if err != nil {
		return err
	}

	u.stats.FilesUploaded++
	u.stats.SamplesSent += len(in.Samples)
	u.stats.BurnPoints += rec.TotalBurnPoints
	u.stats.XPEarned += rec.XPEarned

	if err := u.state.MarkUploaded(relPath, user, info.Size(), hash, rec.ID.String()); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.log.Info("uploaded workout",
		"file", relPath,
		"workout_id", rec.ID,
		"burn_points", rec.TotalBurnPoints,
		"xp", rec.XPEarned,
	)
	return nil
}

// findFITFiles returns every .fit file under dir in lexical order.
func findFITFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".fit") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
