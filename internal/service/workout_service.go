package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrNoActiveWorkout         = errors.New("no active workout")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
	ErrSetNotFound             = errors.New("set not found")
	ErrOrderIndexTaken         = errors.New("an exercise with this order index already exists in the workout")
	ErrSetNumberTaken          = errors.New("a set with this number already exists for the exercise")
	ErrBadStatusFilter         = errors.New("status must be one of active, completed")
)

// ActiveWorkoutError signals that starting (or reopening) a workout would
// violate the one-active-session rule. It carries the id of the session
// already active so the client can offer "resume".
type ActiveWorkoutError struct {
	ActiveWorkoutID uuid.UUID
}

func (e *ActiveWorkoutError) Error() string {
	return fmt.Sprintf("an active workout already exists (%s)", e.ActiveWorkoutID)
}

// WorkoutUpdate carries the mutable session fields for the generic PATCH
// path. ClearEndTime distinguishes `"endTime": null` (reopen) from an
// absent field.
type WorkoutUpdate struct {
	StartTime    *time.Time
	EndTime      *time.Time
	ClearEndTime bool
	Notes        *string
}

// ListResult pairs a page of sessions with the total row count.
type ListResult struct {
	Workouts []domain.WorkoutSession
	Total    int64
	Limit    int
	Offset   int
}

// --- Service Interface ---
type WorkoutService interface {
	// Sessions
	StartWorkout(ctx context.Context, userID uuid.UUID, startTime *time.Time, notes string) (*domain.WorkoutSession, error)
	GetActiveWorkout(ctx context.Context, userID uuid.UUID) (*domain.WorkoutSession, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, status string, limit, offset int) (*ListResult, error)
	GetWorkoutDetail(ctx context.Context, userID, sessionID uuid.UUID) (*domain.WorkoutSession, error)
	UpdateWorkout(ctx context.Context, userID, sessionID uuid.UUID, upd WorkoutUpdate) (*domain.WorkoutSession, error)
	DeleteWorkout(ctx context.Context, userID, sessionID uuid.UUID) error

	// Exercise instances
	AddExercise(ctx context.Context, userID, sessionID, exerciseID uuid.UUID, orderIndex *int, notes string) (*domain.WorkoutExercise, error)
	ListExercises(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.WorkoutExercise, error)
	UpdateExercise(ctx context.Context, userID, sessionID, instanceID uuid.UUID, orderIndex *int, notes *string) (*domain.WorkoutExercise, error)
	RemoveExercise(ctx context.Context, userID, sessionID, instanceID uuid.UUID) error

	// Sets
	AddSet(ctx context.Context, userID, sessionID, instanceID uuid.UUID, setNumber *int, completed bool, metrics domain.SetMetrics) (*domain.WorkoutSet, error)
	UpdateSet(ctx context.Context, userID, sessionID, instanceID, setID uuid.UUID, completed *bool, metrics domain.SetMetrics) (*domain.WorkoutSet, error)
	DeleteSet(ctx context.Context, userID, sessionID, instanceID, setID uuid.UUID) error
}

// --- Service Implementation ---

type workoutService struct {
	sessionRepo  repository.WorkoutSessionRepository
	instanceRepo repository.WorkoutExerciseRepository
	setRepo      repository.WorkoutSetRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	sessionRepo repository.WorkoutSessionRepository,
	instanceRepo repository.WorkoutExerciseRepository,
	setRepo repository.WorkoutSetRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		sessionRepo:  sessionRepo,
		instanceRepo: instanceRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
	}
}

// === Sessions ===

func (s *workoutService) StartWorkout(ctx context.Context, userID uuid.UUID, startTime *time.Time, notes string) (*domain.WorkoutSession, error) {
	start := time.Now().UTC()
	if startTime != nil {
		start = *startTime
	}

	session := &domain.WorkoutSession{
		UserID:    userID,
		StartTime: start,
		Notes:     notes,
	}
	if err := s.sessionRepo.CreateIfNoneActive(ctx, session); err != nil {
		var active *repository.ActiveSessionError
		if errors.As(err, &active) {
			return nil, &ActiveWorkoutError{ActiveWorkoutID: active.SessionID}
		}
		return nil, err
	}
	return session, nil
}

func (s *workoutService) GetActiveWorkout(ctx context.Context, userID uuid.UUID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveWorkout
		}
		return nil, err
	}
	return session, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID uuid.UUID, status string, limit, offset int) (*ListResult, error) {
	var filter repository.SessionStatus
	switch status {
	case "":
		filter = repository.SessionStatusAny
	case "active":
		filter = repository.SessionStatusActive
	case "completed":
		filter = repository.SessionStatusCompleted
	default:
		return nil, ErrBadStatusFilter
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := s.sessionRepo.List(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResult{Workouts: sessions, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *workoutService) GetWorkoutDetail(ctx context.Context, userID, sessionID uuid.UUID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetDetail(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return session, nil
}

// UpdateWorkout covers both completion (endTime set) and the generic notes
// edit. Explicitly clearing endTime reopens the workout, which re-runs the
// single-active check.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, sessionID uuid.UUID, upd WorkoutUpdate) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if upd.StartTime != nil {
		session.StartTime = *upd.StartTime
	}
	if upd.ClearEndTime {
		session.EndTime = nil
	} else if upd.EndTime != nil {
		if upd.EndTime.Before(session.StartTime) {
			return nil, &domain.FieldError{Field: "endTime", Message: "cannot be before startTime"}
		}
		session.EndTime = upd.EndTime
	}
	if upd.Notes != nil {
		session.Notes = *upd.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		var active *repository.ActiveSessionError
		if errors.As(err, &active) {
			return nil, &ActiveWorkoutError{ActiveWorkoutID: active.SessionID}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, sessionID uuid.UUID) error {
	err := s.sessionRepo.Delete(ctx, sessionID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// === Exercise instances ===

func (s *workoutService) AddExercise(ctx context.Context, userID, sessionID, exerciseID uuid.UUID, orderIndex *int, notes string) (*domain.WorkoutExercise, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// The referenced exercise must be visible to this user: a library
	// entry or one of their own. A bad id is a payload problem, not a 404.
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.FieldError{Field: "exerciseId", Message: "exercise does not exist"}
		}
		return nil, err
	}
	if exercise.IsCustom && (exercise.UserID == nil || *exercise.UserID != userID) {
		return nil, &domain.FieldError{Field: "exerciseId", Message: "exercise does not exist"}
	}

	we := &domain.WorkoutExercise{
		WorkoutSessionID: session.ID,
		ExerciseID:       &exercise.ID,
		Notes:            notes,
	}
	assignOrder := orderIndex == nil
	if orderIndex != nil {
		if *orderIndex < 0 {
			return nil, &domain.FieldError{Field: "orderIndex", Message: "must be zero or greater"}
		}
		we.OrderIndex = *orderIndex
	}

	if err := s.instanceRepo.Add(ctx, we, assignOrder); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrOrderIndexTaken
		}
		return nil, err
	}
	we.Exercise = exercise
	return we, nil
}

func (s *workoutService) ListExercises(ctx context.Context, userID, sessionID uuid.UUID) ([]domain.WorkoutExercise, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.instanceRepo.ListBySession(ctx, session.ID)
}

func (s *workoutService) UpdateExercise(ctx context.Context, userID, sessionID, instanceID uuid.UUID, orderIndex *int, notes *string) (*domain.WorkoutExercise, error) {
	if orderIndex == nil && notes == nil {
		return nil, &domain.FieldError{Field: "body", Message: "at least one of orderIndex, notes must be supplied"}
	}

	we, err := s.ownedInstance(ctx, userID, sessionID, instanceID)
	if err != nil {
		return nil, err
	}

	if orderIndex != nil {
		if *orderIndex < 0 {
			return nil, &domain.FieldError{Field: "orderIndex", Message: "must be zero or greater"}
		}
		we.OrderIndex = *orderIndex
	}
	if notes != nil {
		we.Notes = *notes
	}

	if err := s.instanceRepo.Update(ctx, we); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrOrderIndexTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}
	return we, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, userID, sessionID, instanceID uuid.UUID) error {
	we, err := s.ownedInstance(ctx, userID, sessionID, instanceID)
	if err != nil {
		return err
	}
	err = s.instanceRepo.Delete(ctx, we.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutExerciseNotFound
	}
	return err
}

// === Sets ===

func (s *workoutService) AddSet(ctx context.Context, userID, sessionID, instanceID uuid.UUID, setNumber *int, completed bool, metrics domain.SetMetrics) (*domain.WorkoutSet, error) {
	we, err := s.ownedInstance(ctx, userID, sessionID, instanceID)
	if err != nil {
		return nil, err
	}
	if we.Exercise == nil {
		// The exercise definition was deleted; without its type the
		// metric payload cannot be validated.
		return nil, &domain.FieldError{Field: "exerciseId", Message: "the exercise for this instance no longer exists"}
	}

	if err := domain.ValidateSetMetrics(we.Exercise.Type, metrics, true); err != nil {
		return nil, err
	}

	set := &domain.WorkoutSet{
		WorkoutExerciseID: we.ID,
		Completed:         completed,
	}
	metrics.Apply(set)

	assignNumber := setNumber == nil
	if setNumber != nil {
		if *setNumber < 1 {
			return nil, &domain.FieldError{Field: "setNumber", Message: "must be 1 or greater"}
		}
		set.SetNumber = *setNumber
	}

	if err := s.setRepo.Add(ctx, set, assignNumber); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSetNumberTaken
		}
		return nil, err
	}
	return set, nil
}

func (s *workoutService) UpdateSet(ctx context.Context, userID, sessionID, instanceID, setID uuid.UUID, completed *bool, metrics domain.SetMetrics) (*domain.WorkoutSet, error) {
	we, err := s.ownedInstance(ctx, userID, sessionID, instanceID)
	if err != nil {
		return nil, err
	}

	set, err := s.setRepo.GetByID(ctx, setID, we.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}

	if hasMetrics(metrics) {
		if we.Exercise == nil {
			return nil, &domain.FieldError{Field: "exerciseId", Message: "the exercise for this instance no longer exists"}
		}
		if err := domain.ValidateSetMetrics(we.Exercise.Type, metrics, false); err != nil {
			return nil, err
		}
		metrics.Apply(set)
	}
	if completed != nil {
		set.Completed = *completed
	}

	if err := s.setRepo.Update(ctx, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return set, nil
}

func (s *workoutService) DeleteSet(ctx context.Context, userID, sessionID, instanceID, setID uuid.UUID) error {
	we, err := s.ownedInstance(ctx, userID, sessionID, instanceID)
	if err != nil {
		return err
	}
	set, err := s.setRepo.GetByID(ctx, setID, we.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetNotFound
		}
		return err
	}
	err = s.setRepo.Delete(ctx, set.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSetNotFound
	}
	return err
}

// === Ownership helpers ===

// ownedSession is the first ownership tier: the session must exist and
// belong to the caller, otherwise it is reported as not found.
func (s *workoutService) ownedSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return session, nil
}

// ownedInstance composes the first tier with the instance lookup: both the
// session-to-caller and instance-to-session links must hold.
func (s *workoutService) ownedInstance(ctx context.Context, userID, sessionID, instanceID uuid.UUID) (*domain.WorkoutExercise, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	we, err := s.instanceRepo.GetByID(ctx, instanceID, session.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}
	return we, nil
}

func hasMetrics(m domain.SetMetrics) bool {
	return m.Reps != nil || m.Weight != nil || m.WeightUnit != nil ||
		m.Duration != nil || m.Distance != nil || m.DistanceUnit != nil
}
