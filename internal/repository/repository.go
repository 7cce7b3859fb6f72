package repository

import (
	"alcyxob/workout-tracker/internal/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate value")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ActiveSessionError is returned when creating or reopening a workout
// session would leave a user with two active sessions. It carries the id
// of the session already active so callers can offer "resume".
type ActiveSessionError struct {
	SessionID uuid.UUID
}

func (e *ActiveSessionError) Error() string {
	return fmt.Sprintf("an active workout session already exists (%s)", e.SessionID)
}

// SessionStatus filters workout session listings.
type SessionStatus string

const (
	SessionStatusAny       SessionStatus = ""
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ExerciseRepository defines the interface for interacting with exercise
// definitions (both the shared library and user-owned custom entries).
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	// ListVisible returns library exercises plus the user's custom ones.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error)
	// FindCustomByName matches the user's custom exercises by name,
	// case-insensitively. Returns ErrNotFound on no match.
	FindCustomByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SeedLibrary inserts library entries that are not present yet,
	// matched by name.
	SeedLibrary(ctx context.Context, exercises []domain.Exercise) error
}

// WorkoutSessionRepository defines the interface for workout sessions.
// All lookups are scoped by owner: a session owned by another user is
// indistinguishable from a missing one (ErrNotFound).
type WorkoutSessionRepository interface {
	// CreateIfNoneActive inserts the session unless the user already has
	// an active one, in which case it returns *ActiveSessionError. The
	// check and insert run in a single transaction; a partial unique
	// index on (user_id) WHERE end_time IS NULL is the storage-layer
	// backstop for concurrent starts.
	CreateIfNoneActive(ctx context.Context, session *domain.WorkoutSession) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.WorkoutSession, error)
	// GetDetail loads the session with its exercises (ordered by
	// orderIndex), their sets (ordered by setNumber) and exercise rows.
	GetDetail(ctx context.Context, id, userID uuid.UUID) (*domain.WorkoutSession, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.WorkoutSession, error)
	List(ctx context.Context, userID uuid.UUID, status SessionStatus, limit, offset int) ([]domain.WorkoutSession, int64, error)
	// Update persists endTime/notes changes. Clearing endTime re-runs the
	// single-active check transactionally and may return *ActiveSessionError.
	Update(ctx context.Context, session *domain.WorkoutSession) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// WorkoutExerciseRepository defines the interface for exercise instances
// within a session.
type WorkoutExerciseRepository interface {
	// Add inserts the instance. When assignOrder is true the next free
	// 0-based orderIndex is computed inside the transaction; otherwise
	// the caller-supplied index is used and a collision yields
	// ErrDuplicate.
	Add(ctx context.Context, we *domain.WorkoutExercise, assignOrder bool) error
	GetByID(ctx context.Context, id, sessionID uuid.UUID) (*domain.WorkoutExercise, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.WorkoutExercise, error)
	Update(ctx context.Context, we *domain.WorkoutExercise) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkoutSetRepository defines the interface for sets within an exercise
// instance.
type WorkoutSetRepository interface {
	// Add inserts the set. When assignNumber is true the next free
	// 1-based setNumber is computed inside the transaction; otherwise
	// the caller-supplied number is used and a collision yields
	// ErrDuplicate.
	Add(ctx context.Context, set *domain.WorkoutSet, assignNumber bool) error
	GetByID(ctx context.Context, id, workoutExerciseID uuid.UUID) (*domain.WorkoutSet, error)
	Update(ctx context.Context, set *domain.WorkoutSet) error
	Delete(ctx context.Context, id uuid.UUID) error
}
