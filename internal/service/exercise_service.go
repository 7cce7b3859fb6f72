package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound      = errors.New("exercise not found")
	ErrLibraryExerciseFrozen = errors.New("library exercises cannot be modified or deleted")
	ErrDuplicateExerciseName = errors.New("a custom exercise with this name already exists")
	ErrMediaDisabled         = errors.New("media storage is not configured")
	ErrNoDemoVideo           = errors.New("exercise has no demo video")
)

const maxExerciseNameLength = 100

// --- Service Interface ---
type ExerciseService interface {
	ListExercises(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Exercise, error)
	CreateCustomExercise(ctx context.Context, userID uuid.UUID, name string, category domain.ExerciseCategory, exType domain.ExerciseType) (*domain.Exercise, error)
	UpdateCustomExercise(ctx context.Context, userID, exerciseID uuid.UUID, name *string, category *domain.ExerciseCategory, exType *domain.ExerciseType) (*domain.Exercise, error)
	DeleteCustomExercise(ctx context.Context, userID, exerciseID uuid.UUID) error

	// PresignDemoUpload issues an upload URL for the exercise's demo video
	// and records the object key. Owner-only, custom exercises only.
	PresignDemoUpload(ctx context.Context, userID, exerciseID uuid.UUID, contentType string) (string, error)
	// DemoDownloadURL issues a download URL for any exercise visible to
	// the user that has a demo video attached.
	DemoDownloadURL(ctx context.Context, userID, exerciseID uuid.UUID) (string, error)
}

// --- Service Implementation ---

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	media        storage.MediaStorage // may be nil when not configured
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, media storage.MediaStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		media:        media,
	}
}

func (s *exerciseService) ListExercises(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListVisible(ctx, userID)
}

// GetExercise returns a library exercise or one of the user's custom ones.
// Another user's custom exercise is reported as not found, never forbidden,
// so existence does not leak.
func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.IsCustom && (exercise.UserID == nil || *exercise.UserID != userID) {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *exerciseService) CreateCustomExercise(ctx context.Context, userID uuid.UUID, name string, category domain.ExerciseCategory, exType domain.ExerciseType) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxExerciseNameLength {
		return nil, &domain.FieldError{Field: "name", Message: fmt.Sprintf("must be 1-%d characters", maxExerciseNameLength)}
	}
	if !domain.ValidExerciseCategory(category) {
		return nil, &domain.FieldError{Field: "category", Message: "must be one of push, pull, legs, core, cardio"}
	}
	if !domain.ValidExerciseType(exType) {
		return nil, &domain.FieldError{Field: "type", Message: "must be one of strength, cardio"}
	}

	_, err := s.exerciseRepo.FindCustomByName(ctx, userID, name)
	if err == nil {
		return nil, ErrDuplicateExerciseName
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:     name,
		Category: category,
		Type:     exType,
		IsCustom: true,
		UserID:   &userID,
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		// The partial unique index on (user_id, lower(name)) is the
		// backstop when two creates race past the name check.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateExerciseName
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) UpdateCustomExercise(ctx context.Context, userID, exerciseID uuid.UUID, name *string, category *domain.ExerciseCategory, exType *domain.ExerciseType) (*domain.Exercise, error) {
	if name == nil && category == nil && exType == nil {
		return nil, &domain.FieldError{Field: "body", Message: "at least one of name, category, type must be supplied"}
	}

	exercise, err := s.ownedCustomExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" || len(trimmed) > maxExerciseNameLength {
			return nil, &domain.FieldError{Field: "name", Message: fmt.Sprintf("must be 1-%d characters", maxExerciseNameLength)}
		}
		existing, err := s.exerciseRepo.FindCustomByName(ctx, userID, trimmed)
		if err == nil && existing.ID != exercise.ID {
			return nil, ErrDuplicateExerciseName
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		exercise.Name = trimmed
	}
	if category != nil {
		if !domain.ValidExerciseCategory(*category) {
			return nil, &domain.FieldError{Field: "category", Message: "must be one of push, pull, legs, core, cardio"}
		}
		exercise.Category = *category
	}
	if exType != nil && *exType != exercise.Type {
		// The classification governs which set fields are legal; changing
		// it would invalidate every recorded set of this exercise.
		return nil, &domain.FieldError{Field: "type", Message: "type cannot be changed after creation"}
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateExerciseName
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteCustomExercise physically removes the exercise. Historical
// workout_exercises rows keep their data (the FK is set to null), so past
// workouts still render, just without the exercise name.
func (s *exerciseService) DeleteCustomExercise(ctx context.Context, userID, exerciseID uuid.UUID) error {
	exercise, err := s.ownedCustomExercise(ctx, userID, exerciseID)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exercise.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if exercise.DemoVideoKey != nil && s.media != nil {
		if err := s.media.DeleteObject(ctx, *exercise.DemoVideoKey); err != nil {
			// The row is gone; an orphaned object is not worth failing
			// the request over.
			log.Printf("WARN: failed to delete demo video %q for exercise %s: %v", *exercise.DemoVideoKey, exercise.ID, err)
		}
	}
	return nil
}

func (s *exerciseService) PresignDemoUpload(ctx context.Context, userID, exerciseID uuid.UUID, contentType string) (string, error) {
	if s.media == nil {
		return "", ErrMediaDisabled
	}
	if contentType == "" {
		return "", &domain.FieldError{Field: "contentType", Message: "required"}
	}

	exercise, err := s.ownedCustomExercise(ctx, userID, exerciseID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exercise-videos/%s", exercise.ID)
	url, err := s.media.PresignUpload(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}

	exercise.DemoVideoKey = &key
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return "", err
	}
	return url, nil
}

func (s *exerciseService) DemoDownloadURL(ctx context.Context, userID, exerciseID uuid.UUID) (string, error) {
	if s.media == nil {
		return "", ErrMediaDisabled
	}

	exercise, err := s.GetExercise(ctx, userID, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.DemoVideoKey == nil {
		return "", ErrNoDemoVideo
	}
	return s.media.PresignDownload(ctx, *exercise.DemoVideoKey, storage.DefaultPresignedURLExpiry)
}

// ownedCustomExercise is the third ownership tier: not found when the row
// is missing or belongs to another user, forbidden when it is a shared
// library entry.
func (s *exerciseService) ownedCustomExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !exercise.IsCustom {
		return nil, ErrLibraryExerciseFrozen
	}
	if exercise.UserID == nil || *exercise.UserID != userID {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}
