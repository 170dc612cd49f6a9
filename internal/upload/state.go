package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB remembers which FIT files became which workouts so a rerun only
// sends new or changed files.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS uploaded_files (
		path        TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		size        INTEGER NOT NULL,
		hash        TEXT NOT NULL,
		workout_id  TEXT,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (path, user_id)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsUploaded reports whether relPath was already sent for userID with the
// same size and content hash.
func (s *StateDB) IsUploaded(relPath, userID string, size int64, hash string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM uploaded_files WHERE path = ? AND user_id = ? AND size = ? AND hash = ?`,
		relPath, userID, size, hash,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkUploaded records relPath as sent. workoutID is empty for files that
// carried no heart-rate data.
func (s *StateDB) MarkUploaded(relPath, userID string, size int64, hash, workoutID string) error {
	var wid any
	if workoutID != "" {
		wid = workoutID
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO uploaded_files (path, user_id, size, hash, workout_id) VALUES (?, ?, ?, ?, ?)`,
		relPath, userID, size, hash, wid,
	)
	return err
}

// WorkoutID returns the workout created from relPath, or "" if none.
func (s *StateDB) WorkoutID(relPath, userID string) (string, error) {
	var wid sql.NullString
	err := s.db.QueryRow(
		`SELECT workout_id FROM uploaded_files WHERE path = ? AND user_id = ?`,
		relPath, userID,
	).Scan(&wid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return wid.String, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
