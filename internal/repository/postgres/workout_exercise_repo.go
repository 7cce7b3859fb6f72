package postgres

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workoutExerciseRepository implements repository.WorkoutExerciseRepository
// on PostgreSQL.
type workoutExerciseRepository struct {
	db *gorm.DB
}

// NewWorkoutExerciseRepository creates a new WorkoutExercise repository
// backed by PostgreSQL.
func NewWorkoutExerciseRepository(db *gorm.DB) repository.WorkoutExerciseRepository {
	return &workoutExerciseRepository{db: db}
}

// Add inserts the instance, computing the next 0-based orderIndex inside
// the transaction when none was supplied. The unique index on
// (workout_session_id, order_index) catches the race where two concurrent
// adds compute the same next index.
func (r *workoutExerciseRepository) Add(ctx context.Context, we *domain.WorkoutExercise, assignOrder bool) error {
	if we.ID == uuid.Nil {
		we.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if assignOrder {
			var next int
			err := tx.Model(&domain.WorkoutExercise{}).
				Where("workout_session_id = ?", we.WorkoutSessionID).
				Select("COALESCE(MAX(order_index), -1) + 1").
				Scan(&next).Error
			if err != nil {
				return err
			}
			we.OrderIndex = next
		} else {
			var count int64
			err := tx.Model(&domain.WorkoutExercise{}).
				Where("workout_session_id = ? AND order_index = ?", we.WorkoutSessionID, we.OrderIndex).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return repository.ErrDuplicate
			}
		}
		return tx.Create(we).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *workoutExerciseRepository) GetByID(ctx context.Context, id, sessionID uuid.UUID) (*domain.WorkoutExercise, error) {
	var we domain.WorkoutExercise
	err := r.db.WithContext(ctx).
		Preload("Exercise").
		Where("id = ? AND workout_session_id = ?", id, sessionID).
		First(&we).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &we, nil
}

func (r *workoutExerciseRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.WorkoutExercise, error) {
	var instances []domain.WorkoutExercise
	err := r.db.WithContext(ctx).
		Preload("Exercise").
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_sets.set_number asc")
		}).
		Where("workout_session_id = ?", sessionID).
		Order("order_index asc").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *workoutExerciseRepository) Update(ctx context.Context, we *domain.WorkoutExercise) error {
	result := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("id = ?", we.ID).
		Updates(map[string]interface{}{
			"order_index": we.OrderIndex,
			"notes":       we.Notes,
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

// Delete removes the instance; its sets go with it through the cascade
// constraint.
func (r *workoutExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.WorkoutExercise{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
