package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository/postgres"
)

func TestSeedLibraryIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.exerciseRepo.SeedLibrary(ctx, postgres.DefaultLibrary); err != nil {
		t.Fatalf("Failed to seed library: %v", err)
	}
	if err := env.exerciseRepo.SeedLibrary(ctx, postgres.DefaultLibrary); err != nil {
		t.Fatalf("Re-seeding should be a no-op, got %v", err)
	}

	var count int64
	env.db.Table("exercises").Where("is_custom = false").Count(&count)
	if count != int64(len(postgres.DefaultLibrary)) {
		t.Errorf("expected %d library exercises, got %d", len(postgres.DefaultLibrary), count)
	}
}

func TestListExercisesVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)
	ctx := context.Background()

	library := env.createLibraryExercise(t, "Bench Press", domain.TypeStrength)
	mine := env.createCustomExercise(t, alice.ID, "My Special Lift", domain.TypeStrength)
	env.createCustomExercise(t, bob.ID, "Bob's Lift", domain.TypeStrength)

	visible, err := env.exercises.ListExercises(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Failed to list exercises: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected library + own custom = 2 exercises, got %d", len(visible))
	}
	ids := map[string]bool{}
	for _, ex := range visible {
		ids[ex.ID.String()] = true
	}
	if !ids[library.ID.String()] || !ids[mine.ID.String()] {
		t.Error("expected the library exercise and the user's own custom exercise")
	}
}

func TestGetExerciseHidesForeignCustom(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)
	ctx := context.Background()

	theirs := env.createCustomExercise(t, bob.ID, "Bob's Lift", domain.TypeStrength)

	if _, err := env.exercises.GetExercise(ctx, alice.ID, theirs.ID); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("expected another user's custom exercise to read as not found, got %v", err)
	}
	if _, err := env.exercises.GetExercise(ctx, bob.ID, theirs.ID); err != nil {
		t.Errorf("owner should see their custom exercise, got %v", err)
	}
}

func TestCreateCustomExerciseValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := context.Background()

	var fieldErr *domain.FieldError
	if _, err := env.exercises.CreateCustomExercise(ctx, user.ID, "   ", domain.CategoryPush, domain.TypeStrength); !errors.As(err, &fieldErr) || fieldErr.Field != "name" {
		t.Errorf("expected a field error on name for a blank name, got %v", err)
	}
	if _, err := env.exercises.CreateCustomExercise(ctx, user.ID, strings.Repeat("x", 101), domain.CategoryPush, domain.TypeStrength); !errors.As(err, &fieldErr) || fieldErr.Field != "name" {
		t.Errorf("expected a field error on name for a long name, got %v", err)
	}
	if _, err := env.exercises.CreateCustomExercise(ctx, user.ID, "Shrug", "arms", domain.TypeStrength); !errors.As(err, &fieldErr) || fieldErr.Field != "category" {
		t.Errorf("expected a field error on category, got %v", err)
	}
	if _, err := env.exercises.CreateCustomExercise(ctx, user.ID, "Shrug", domain.CategoryPull, "mobility"); !errors.As(err, &fieldErr) || fieldErr.Field != "type" {
		t.Errorf("expected a field error on type, got %v", err)
	}

	created, err := env.exercises.CreateCustomExercise(ctx, user.ID, "  Shrug  ", domain.CategoryPull, domain.TypeStrength)
	if err != nil {
		t.Fatalf("Failed to create custom exercise: %v", err)
	}
	if created.Name != "Shrug" {
		t.Errorf("expected name to be trimmed, got %q", created.Name)
	}
	if !created.IsCustom || created.UserID == nil || *created.UserID != user.ID {
		t.Error("expected the exercise to be custom and owned by the creator")
	}
}

func TestDuplicateCustomNameCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)
	ctx := context.Background()

	env.createCustomExercise(t, alice.ID, "Bulgarian Split Squat", domain.TypeStrength)

	if _, err := env.exercises.CreateCustomExercise(ctx, alice.ID, "bulgarian split squat", domain.CategoryLegs, domain.TypeStrength); !errors.Is(err, ErrDuplicateExerciseName) {
		t.Errorf("expected a case-insensitive duplicate to be rejected, got %v", err)
	}

	// Uniqueness is per owner; another user may reuse the name.
	if _, err := env.exercises.CreateCustomExercise(ctx, bob.ID, "Bulgarian Split Squat", domain.CategoryLegs, domain.TypeStrength); err != nil {
		t.Errorf("expected another user to reuse the name, got %v", err)
	}
}

func TestLibraryExercisesAreFrozen(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := context.Background()

	library := env.createLibraryExercise(t, "Bench Press", domain.TypeStrength)

	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, library.ID, strPtr("Renamed"), nil, nil); !errors.Is(err, ErrLibraryExerciseFrozen) {
		t.Errorf("expected library update to be forbidden, got %v", err)
	}
	if err := env.exercises.DeleteCustomExercise(ctx, user.ID, library.ID); !errors.Is(err, ErrLibraryExerciseFrozen) {
		t.Errorf("expected library delete to be forbidden, got %v", err)
	}
}

func TestUpdateCustomExercise(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := context.Background()

	exercise := env.createCustomExercise(t, user.ID, "Farmer Carry", domain.TypeStrength)

	category := domain.CategoryCore
	updated, err := env.exercises.UpdateCustomExercise(ctx, user.ID, exercise.ID, strPtr("Farmer's Carry"), &category, nil)
	if err != nil {
		t.Fatalf("Failed to update custom exercise: %v", err)
	}
	if updated.Name != "Farmer's Carry" || updated.Category != domain.CategoryCore {
		t.Errorf("expected updated name and category, got %q/%q", updated.Name, updated.Category)
	}

	// Supplying the current type is a no-op, changing it is rejected.
	sameType := domain.TypeStrength
	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, exercise.ID, nil, nil, &sameType); err != nil {
		t.Errorf("expected supplying the unchanged type to succeed, got %v", err)
	}
	newType := domain.TypeCardio
	var fieldErr *domain.FieldError
	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, exercise.ID, nil, nil, &newType); !errors.As(err, &fieldErr) || fieldErr.Field != "type" {
		t.Errorf("expected a type change to be rejected, got %v", err)
	}

	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, exercise.ID, nil, nil, nil); !errors.As(err, &fieldErr) {
		t.Errorf("expected an empty update to be rejected, got %v", err)
	}
}

func TestUpdateCustomExerciseDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := context.Background()

	env.createCustomExercise(t, user.ID, "Box Jump", domain.TypeStrength)
	other := env.createCustomExercise(t, user.ID, "Step Up", domain.TypeStrength)

	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, other.ID, strPtr("BOX JUMP"), nil, nil); !errors.Is(err, ErrDuplicateExerciseName) {
		t.Errorf("expected renaming onto an existing name to be rejected, got %v", err)
	}

	// Renaming to its own name (case change only) is allowed.
	if _, err := env.exercises.UpdateCustomExercise(ctx, user.ID, other.ID, strPtr("step up"), nil, nil); err != nil {
		t.Errorf("expected a case-only rename of itself to succeed, got %v", err)
	}
}

func TestForeignCustomExerciseMutationsReadAsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t)
	bob := env.createUser(t)
	ctx := context.Background()

	theirs := env.createCustomExercise(t, bob.ID, "Bob's Lift", domain.TypeStrength)

	if _, err := env.exercises.UpdateCustomExercise(ctx, alice.ID, theirs.ID, strPtr("Stolen"), nil, nil); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("expected updating another user's exercise to read as not found, got %v", err)
	}
	if err := env.exercises.DeleteCustomExercise(ctx, alice.ID, theirs.ID); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("expected deleting another user's exercise to read as not found, got %v", err)
	}
}

func TestDemoVideoRequiresMediaStorage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := context.Background()

	exercise := env.createCustomExercise(t, user.ID, "Kettlebell Swing", domain.TypeStrength)

	if _, err := env.exercises.PresignDemoUpload(ctx, user.ID, exercise.ID, "video/mp4"); !errors.Is(err, ErrMediaDisabled) {
		t.Errorf("expected presign to fail without media storage, got %v", err)
	}
	if _, err := env.exercises.DemoDownloadURL(ctx, user.ID, exercise.ID); !errors.Is(err, ErrMediaDisabled) {
		t.Errorf("expected download to fail without media storage, got %v", err)
	}
}
