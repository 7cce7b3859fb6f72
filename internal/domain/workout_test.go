package domain

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func weightUnitPtr(u WeightUnit) *WeightUnit {
	return &u
}

func distanceUnitPtr(u DistanceUnit) *DistanceUnit {
	return &u
}

func TestValidateSetMetrics(t *testing.T) {
	tests := []struct {
		name        string
		exType      ExerciseType
		metrics     SetMetrics
		requireCore bool
		wantField   string // empty means no error expected
	}{
		{
			name:        "strength with reps only",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(8)},
			requireCore: true,
		},
		{
			name:        "strength with reps and weight",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), Weight: floatPtr(135), WeightUnit: weightUnitPtr(WeightUnitLbs)},
			requireCore: true,
		},
		{
			name:        "strength with bodyweight unit",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(12), Weight: floatPtr(0), WeightUnit: weightUnitPtr(WeightUnitBodyweight)},
			requireCore: true,
		},
		{
			name:        "strength missing reps on create",
			exType:      TypeStrength,
			metrics:     SetMetrics{Weight: floatPtr(100), WeightUnit: weightUnitPtr(WeightUnitKg)},
			requireCore: true,
			wantField:   "reps",
		},
		{
			name:        "strength missing reps allowed on update",
			exType:      TypeStrength,
			metrics:     SetMetrics{Weight: floatPtr(100), WeightUnit: weightUnitPtr(WeightUnitKg)},
			requireCore: false,
		},
		{
			name:        "strength zero reps",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(0)},
			requireCore: true,
			wantField:   "reps",
		},
		{
			name:        "strength negative weight",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), Weight: floatPtr(-10), WeightUnit: weightUnitPtr(WeightUnitLbs)},
			requireCore: true,
			wantField:   "weight",
		},
		{
			name:        "strength weight without unit",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), Weight: floatPtr(135)},
			requireCore: true,
			wantField:   "weightUnit",
		},
		{
			name:        "strength rejects duration",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), Duration: intPtr(60)},
			requireCore: true,
			wantField:   "duration",
		},
		{
			name:        "strength rejects distance",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), Distance: floatPtr(1)},
			requireCore: true,
			wantField:   "distance",
		},
		{
			name:        "strength rejects distance unit",
			exType:      TypeStrength,
			metrics:     SetMetrics{Reps: intPtr(5), DistanceUnit: distanceUnitPtr(DistanceUnitKm)},
			requireCore: true,
			wantField:   "distanceUnit",
		},
		{
			name:        "cardio with duration only",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(1800)},
			requireCore: true,
		},
		{
			name:        "cardio with duration and distance",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(1800), Distance: floatPtr(3.1), DistanceUnit: distanceUnitPtr(DistanceUnitMiles)},
			requireCore: true,
		},
		{
			name:        "cardio missing duration on create",
			exType:      TypeCardio,
			metrics:     SetMetrics{Distance: floatPtr(5), DistanceUnit: distanceUnitPtr(DistanceUnitKm)},
			requireCore: true,
			wantField:   "duration",
		},
		{
			name:        "cardio missing duration allowed on update",
			exType:      TypeCardio,
			metrics:     SetMetrics{Distance: floatPtr(5), DistanceUnit: distanceUnitPtr(DistanceUnitKm)},
			requireCore: false,
		},
		{
			name:        "cardio zero duration",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(0)},
			requireCore: true,
			wantField:   "duration",
		},
		{
			name:        "cardio distance without unit",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(600), Distance: floatPtr(2)},
			requireCore: true,
			wantField:   "distanceUnit",
		},
		{
			name:        "cardio rejects reps",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(600), Reps: intPtr(10)},
			requireCore: true,
			wantField:   "reps",
		},
		{
			name:        "cardio rejects weight",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(600), Weight: floatPtr(45)},
			requireCore: true,
			wantField:   "weight",
		},
		{
			name:        "cardio rejects weight unit",
			exType:      TypeCardio,
			metrics:     SetMetrics{Duration: intPtr(600), WeightUnit: weightUnitPtr(WeightUnitKg)},
			requireCore: true,
			wantField:   "weightUnit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSetMetrics(tt.exType, tt.metrics, tt.requireCore)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected a field error, got %v", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("expected error on field %q, got %q (%s)", tt.wantField, fieldErr.Field, fieldErr.Message)
			}
		})
	}
}

func TestValidateSetMetricsUnknownType(t *testing.T) {
	if err := ValidateSetMetrics("yoga", SetMetrics{}, true); err == nil {
		t.Fatal("expected an error for an unknown exercise type")
	}
}

func TestSetMetricsApply(t *testing.T) {
	set := &WorkoutSet{Reps: intPtr(5), Weight: floatPtr(100), WeightUnit: weightUnitPtr(WeightUnitLbs)}

	m := SetMetrics{Reps: intPtr(8)}
	m.Apply(set)

	if set.Reps == nil || *set.Reps != 8 {
		t.Errorf("expected reps to be updated to 8, got %v", set.Reps)
	}
	if set.Weight == nil || *set.Weight != 100 {
		t.Errorf("expected weight to be preserved, got %v", set.Weight)
	}
	if set.WeightUnit == nil || *set.WeightUnit != WeightUnitLbs {
		t.Errorf("expected weight unit to be preserved, got %v", set.WeightUnit)
	}
}

func TestWorkoutSessionIsActive(t *testing.T) {
	session := &WorkoutSession{}
	if !session.IsActive() {
		t.Error("session without end time should be active")
	}

	now := time.Now()
	session.EndTime = &now
	if session.IsActive() {
		t.Error("session with end time should not be active")
	}
}
