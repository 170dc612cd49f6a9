// Package service orchestrates the scoring engine against storage. It owns
// per-user serialisation: every read-modify-write of a user's progression
// runs under both an in-process per-user lock and the store's row lock.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/events"
	"github.com/meltforce/pulsefit/internal/models"
	"github.com/meltforce/pulsefit/internal/storage"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Store is the persistence the service needs. *storage.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.UserProfile) error
	WithUserLock(ctx context.Context, userID uuid.UUID, fn func(storage.UserTx) error) error

	GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRecord, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error)
	WorkoutsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.WorkoutRecord, error)

	ListUnlocked(ctx context.Context, userID uuid.UUID) ([]models.UnlockedAchievement, error)
	GetPersonalBests(ctx context.Context, userID uuid.UUID) (models.PersonalBests, error)

	InsertTemplate(ctx context.Context, t models.Template) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error)
	ListTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	GetSettings(ctx context.Context, userID uuid.UUID) (*models.Settings, error)
	SaveSettings(ctx context.Context, userID uuid.UUID, s models.Settings) error
}

// Service implements the PulseFit operations.
type Service struct {
	store     Store
	publisher events.Publisher
	logger    *slog.Logger
	locks     *keyedMutex
	now       func() time.Time
	rng       engine.Rand
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the random source used for heart-rate simulation.
func WithRand(r engine.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// New creates a Service.
func New(store Store, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		locks:     newKeyedMutex(),
		now:       time.Now,
		rng:       globalRand{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// globalRand uses the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func (s *Service) publish(ctx context.Context, evs []engine.Event) {
	if len(evs) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.logger.Warn("publishing events failed", "count", len(evs), "error", err)
	}
}

func userErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
