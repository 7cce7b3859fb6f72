package service

import (
	"context"
	"fmt"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/postgres"
	"alcyxob/workout-tracker/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	exercises    ExerciseService
	workouts     WorkoutService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	userRepo := postgres.NewUserRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	sessionRepo := postgres.NewWorkoutSessionRepository(db)
	instanceRepo := postgres.NewWorkoutExerciseRepository(db)
	setRepo := postgres.NewWorkoutSetRepository(db)

	return &testEnv{
		db:           db,
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		exercises:    NewExerciseService(exerciseRepo, nil),
		workouts:     NewWorkoutService(sessionRepo, instanceRepo, setRepo, exerciseRepo),
	}
}

var testUserSeq int

func (e *testEnv) createUser(t *testing.T) *domain.User {
	t.Helper()
	testUserSeq++
	user := &domain.User{
		Email:               fmt.Sprintf("user%d-%s@example.com", testUserSeq, uuid.NewString()[:8]),
		DisplayName:         fmt.Sprintf("Test User %d", testUserSeq),
		PreferredWeightUnit: domain.WeightUnitLbs,
	}
	if err := e.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func (e *testEnv) createLibraryExercise(t *testing.T, name string, exType domain.ExerciseType) *domain.Exercise {
	t.Helper()
	category := domain.CategoryPush
	if exType == domain.TypeCardio {
		category = domain.CategoryCardio
	}
	exercise := &domain.Exercise{
		Name:     name,
		Category: category,
		Type:     exType,
		IsCustom: false,
	}
	if err := e.exerciseRepo.Create(context.Background(), exercise); err != nil {
		t.Fatalf("Failed to create library exercise: %v", err)
	}
	return exercise
}

func (e *testEnv) createCustomExercise(t *testing.T, userID uuid.UUID, name string, exType domain.ExerciseType) *domain.Exercise {
	t.Helper()
	category := domain.CategoryPush
	if exType == domain.TypeCardio {
		category = domain.CategoryCardio
	}
	exercise, err := e.exercises.CreateCustomExercise(context.Background(), userID, name, category, exType)
	if err != nil {
		t.Fatalf("Failed to create custom exercise: %v", err)
	}
	return exercise
}

func (e *testEnv) startWorkout(t *testing.T, userID uuid.UUID) *domain.WorkoutSession {
	t.Helper()
	session, err := e.workouts.StartWorkout(context.Background(), userID, nil, "")
	if err != nil {
		t.Fatalf("Failed to start workout: %v", err)
	}
	return session
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

func weightUnitPtr(u domain.WeightUnit) *domain.WeightUnit {
	return &u
}

func distanceUnitPtr(u domain.DistanceUnit) *domain.DistanceUnit {
	return &u
}
