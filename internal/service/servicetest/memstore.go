// Package servicetest provides an in-memory service.Store for tests.
package servicetest

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/storage"
)

// Store is an in-memory service.Store. Each call is individually
// synchronised but WithUserLock takes no lock, so any serialisation across
// a read-modify-write has to come from the caller. A WithUserLock callback
// that returns an error has its writes rolled back, like a pgx transaction.
type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]models.User
	workouts  []models.WorkoutRecord
	unlocked  map[uuid.UUID][]models.UnlockedAchievement
	bests     map[uuid.UUID]models.PersonalBests
	templates map[uuid.UUID]models.Template
	settings  map[uuid.UUID]models.Settings
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:     map[uuid.UUID]models.User{},
		unlocked:  map[uuid.UUID][]models.UnlockedAchievement{},
		bests:     map[uuid.UUID]models.PersonalBests{},
		templates: map[uuid.UUID]models.Template{},
		settings:  map[uuid.UUID]models.Settings{},
	}
}

func (f *Store) CreateUser(_ context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (f *Store) UpdateProfile(_ context.Context, id uuid.UUID, p models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.UserProfile = p
	f.users[id] = u
	return nil
}

// SetProgression overwrites a user's progression state.
func (f *Store) SetProgression(id uuid.UUID, s models.ProgressionState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	u.ProgressionState = s
	f.users[id] = u
}

func (f *Store) WithUserLock(_ context.Context, userID uuid.UUID, fn func(storage.UserTx) error) error {
	snap := f.snapshot(userID)
	tx := &memTx{f: f, userID: userID, inserted: map[uuid.UUID]bool{}}
	if err := fn(tx); err != nil {
		f.restore(snap, tx.inserted)
		return err
	}
	return nil
}

// userSnapshot is the per-user state a transaction can write.
type userSnapshot struct {
	userID   uuid.UUID
	user     models.User
	hasUser  bool
	unlocked []models.UnlockedAchievement
	bests    models.PersonalBests
	hasBests bool
}

func (f *Store) snapshot(userID uuid.UUID) userSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := userSnapshot{userID: userID}
	s.user, s.hasUser = f.users[userID]
	s.unlocked = append([]models.UnlockedAchievement(nil), f.unlocked[userID]...)
	s.bests, s.hasBests = f.bests[userID]
	return s
}

// restore puts back s and drops the workouts inserted by the failed
// transaction. Other users' writes made meanwhile are kept.
func (f *Store) restore(s userSnapshot, inserted map[uuid.UUID]bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.hasUser {
		f.users[s.userID] = s.user
	} else {
		delete(f.users, s.userID)
	}
	if len(s.unlocked) > 0 {
		f.unlocked[s.userID] = s.unlocked
	} else {
		delete(f.unlocked, s.userID)
	}
	if s.hasBests {
		f.bests[s.userID] = s.bests
	} else {
		delete(f.bests, s.userID)
	}
	kept := f.workouts[:0]
	for _, w := range f.workouts {
		if !inserted[w.ID] {
			kept = append(kept, w)
		}
	}
	f.workouts = kept
}

func (f *Store) GetWorkout(_ context.Context, id uuid.UUID) (*models.WorkoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.workouts {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *Store) ListWorkouts(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error) {
	all := f.userWorkouts(userID)
	sort.Slice(all, func(i, j int) bool { return all[i].EndTime.After(all[j].EndTime) })
	total := len(all)
	if offset >= total {
		return []models.WorkoutRecord{}, total, nil
	}
	return all[offset:min(total, offset+limit)], total, nil
}

func (f *Store) WorkoutsSince(_ context.Context, userID uuid.UUID, since time.Time) ([]models.WorkoutRecord, error) {
	var out []models.WorkoutRecord
	for _, w := range f.userWorkouts(userID) {
		if !w.EndTime.Before(since) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *Store) userWorkouts(userID uuid.UUID) []models.WorkoutRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WorkoutRecord
	for _, w := range f.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out
}

func (f *Store) ListUnlocked(_ context.Context, userID uuid.UUID) ([]models.UnlockedAchievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UnlockedAchievement(nil), f.unlocked[userID]...), nil
}

func (f *Store) GetPersonalBests(_ context.Context, userID uuid.UUID) (models.PersonalBests, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pb, ok := f.bests[userID]
	if !ok {
		pb.UserID = userID
	}
	return pb, nil
}

func (f *Store) InsertTemplate(_ context.Context, t models.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[uuid.MustParse(t.ID)] = t
	return nil
}

func (f *Store) GetTemplate(_ context.Context, id uuid.UUID) (*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (f *Store) ListTemplates(_ context.Context, userID uuid.UUID) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Template{}
	for _, t := range f.templates {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *Store) DeleteTemplate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.templates[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

func (f *Store) GetSettings(_ context.Context, userID uuid.UUID) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *Store) SaveSettings(_ context.Context, userID uuid.UUID, s models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[userID] = s
	return nil
}

type memTx struct {
	f        *Store
	userID   uuid.UUID
	inserted map[uuid.UUID]bool
}

func (t *memTx) LockUser(ctx context.Context) (*models.User, error) {
	u, err := t.f.GetUser(ctx, t.userID)
	// Widen the window between read and write so unserialised callers
	// would interleave.
	runtime.Gosched()
	return u, err
}

func (t *memTx) SaveProgression(_ context.Context, s models.ProgressionState) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	u := t.f.users[t.userID]
	u.ProgressionState = s
	t.f.users[t.userID] = u
	return nil
}

func (t *memTx) InsertWorkout(_ context.Context, w models.WorkoutRecord) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.workouts = append(t.f.workouts, w)
	t.inserted[w.ID] = true
	return nil
}

func (t *memTx) UnlockedIDs(ctx context.Context) (map[string]bool, error) {
	recs, _ := t.f.ListUnlocked(ctx, t.userID)
	ids := map[string]bool{}
	for _, r := range recs {
		ids[r.AchievementID] = true
	}
	return ids, nil
}

func (t *memTx) InsertUnlocked(_ context.Context, recs []models.UnlockedAchievement) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.unlocked[t.userID] = append(t.f.unlocked[t.userID], recs...)
	return nil
}

func (t *memTx) PersonalBests(ctx context.Context) (models.PersonalBests, error) {
	return t.f.GetPersonalBests(ctx, t.userID)
}

func (t *memTx) SavePersonalBests(_ context.Context, pb models.PersonalBests) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.bests[t.userID] = pb
	return nil
}
