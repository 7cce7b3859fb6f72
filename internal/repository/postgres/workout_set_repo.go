package postgres

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workoutSetRepository implements repository.WorkoutSetRepository on
// PostgreSQL.
type workoutSetRepository struct {
	db *gorm.DB
}

// NewWorkoutSetRepository creates a new WorkoutSet repository backed by
// PostgreSQL.
func NewWorkoutSetRepository(db *gorm.DB) repository.WorkoutSetRepository {
	return &workoutSetRepository{db: db}
}

// Add inserts the set, computing the next 1-based setNumber inside the
// transaction when none was supplied. The unique index on
// (workout_exercise_id, set_number) is the backstop for concurrent adds.
func (r *workoutSetRepository) Add(ctx context.Context, set *domain.WorkoutSet, assignNumber bool) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if assignNumber {
			var next int
			err := tx.Model(&domain.WorkoutSet{}).
				Where("workout_exercise_id = ?", set.WorkoutExerciseID).
				Select("COALESCE(MAX(set_number), 0) + 1").
				Scan(&next).Error
			if err != nil {
				return err
			}
			set.SetNumber = next
		} else {
			var count int64
			err := tx.Model(&domain.WorkoutSet{}).
				Where("workout_exercise_id = ? AND set_number = ?", set.WorkoutExerciseID, set.SetNumber).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return repository.ErrDuplicate
			}
		}
		return tx.Create(set).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *workoutSetRepository) GetByID(ctx context.Context, id, workoutExerciseID uuid.UUID) (*domain.WorkoutSet, error) {
	var set domain.WorkoutSet
	err := r.db.WithContext(ctx).
		Where("id = ? AND workout_exercise_id = ?", id, workoutExerciseID).
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *workoutSetRepository) Update(ctx context.Context, set *domain.WorkoutSet) error {
	result := r.db.WithContext(ctx).Model(&domain.WorkoutSet{}).
		Where("id = ?", set.ID).
		Updates(map[string]interface{}{
			"completed":     set.Completed,
			"reps":          set.Reps,
			"weight":        set.Weight,
			"weight_unit":   set.WeightUnit,
			"duration":      set.Duration,
			"distance":      set.Distance,
			"distance_unit": set.DistanceUnit,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.WorkoutSet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
