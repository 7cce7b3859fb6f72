package postgres

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// workoutSessionRepository implements repository.WorkoutSessionRepository
// on PostgreSQL.
type workoutSessionRepository struct {
	db *gorm.DB
}

// NewWorkoutSessionRepository creates a new WorkoutSession repository
// backed by PostgreSQL.
func NewWorkoutSessionRepository(db *gorm.DB) repository.WorkoutSessionRepository {
	return &workoutSessionRepository{db: db}
}

// CreateIfNoneActive performs the check-then-insert for the single-active
// invariant in one transaction, locking any existing active row. Two
// concurrent starts can still both observe "no active session"; the
// partial unique index on (user_id) WHERE end_time IS NULL rejects the
// loser, which is reported the same way as the in-transaction check.
func (r *workoutSessionRepository) CreateIfNoneActive(ctx context.Context, session *domain.WorkoutSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.WorkoutSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND end_time IS NULL", session.UserID).
			First(&existing).Error
		if err == nil {
			return &repository.ActiveSessionError{SessionID: existing.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(session).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.activeSessionError(ctx, session.UserID)
	}
	return err
}

// activeSessionError resolves the id of the user's active session after a
// unique-index violation, so the caller still learns which session to resume.
func (r *workoutSessionRepository) activeSessionError(ctx context.Context, userID uuid.UUID) error {
	var existing domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&existing).Error
	if err != nil {
		return &repository.ActiveSessionError{}
	}
	return &repository.ActiveSessionError{SessionID: existing.ID}
}

func (r *workoutSessionRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *workoutSessionRepository) GetDetail(ctx context.Context, id, userID uuid.UUID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_exercises.order_index asc")
		}).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_sets.set_number asc")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *workoutSessionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *workoutSessionRepository) List(ctx context.Context, userID uuid.UUID, status repository.SessionStatus, limit, offset int) ([]domain.WorkoutSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.WorkoutSession{}).
		Where("user_id = ?", userID)
	switch status {
	case repository.SessionStatusActive:
		query = query.Where("end_time IS NULL")
	case repository.SessionStatusCompleted:
		query = query.Where("end_time IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []domain.WorkoutSession
	err := query.Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Update persists endTime/notes. Clearing endTime reopens the session, so
// the single-active check runs again in the same transactional shape as
// CreateIfNoneActive.
func (r *workoutSessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if session.EndTime == nil {
			var existing domain.WorkoutSession
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND end_time IS NULL AND id <> ?", session.UserID, session.ID).
				First(&existing).Error
			if err == nil {
				return &repository.ActiveSessionError{SessionID: existing.ID}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		result := tx.Model(&domain.WorkoutSession{}).
			Where("id = ? AND user_id = ?", session.ID, session.UserID).
			Updates(map[string]interface{}{
				"start_time": session.StartTime,
				"end_time":   session.EndTime,
				"notes":      session.Notes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.activeSessionError(ctx, session.UserID)
	}
	return err
}

// Delete removes the session; workout_exercises and workout_sets rows go
// with it through the cascade constraints.
func (r *workoutSessionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.WorkoutSession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
