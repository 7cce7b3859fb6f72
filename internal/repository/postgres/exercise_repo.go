package postgres

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// exerciseRepository implements repository.ExerciseRepository on PostgreSQL.
type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository creates a new Exercise repository backed by PostgreSQL.
func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(exercise).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).First(&exercise, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// ListVisible returns the shared library plus the user's own custom
// exercises, library entries first, then by name.
func (r *exerciseRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := r.db.WithContext(ctx).
		Where("is_custom = false OR user_id = ?", userID).
		Order("is_custom asc, name asc").
		Find(&exercises).Error
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepository) FindCustomByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).
		Where("is_custom = true AND user_id = ? AND lower(name) = lower(?)", userID, name).
		First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Update persists name/category/type/demo-video changes. Ownership and
// classification fields are never touched here.
func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	result := r.db.WithContext(ctx).Model(&domain.Exercise{}).
		Where("id = ?", exercise.ID).
		Updates(map[string]interface{}{
			"name":           exercise.Name,
			"category":       exercise.Category,
			"type":           exercise.Type,
			"demo_video_key": exercise.DemoVideoKey,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicate
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete physically removes the exercise. workout_exercises rows that
// reference it keep their history via ON DELETE SET NULL.
func (r *exerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Exercise{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *exerciseRepository) SeedLibrary(ctx context.Context, exercises []domain.Exercise) error {
	for i := range exercises {
		entry := exercises[i]
		entry.IsCustom = false
		entry.UserID = nil

		var count int64
		err := r.db.WithContext(ctx).Model(&domain.Exercise{}).
			Where("is_custom = false AND lower(name) = lower(?)", entry.Name).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}
