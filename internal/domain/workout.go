package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DistanceUnit is the unit a cardio distance is expressed in.
type DistanceUnit string

const (
	DistanceUnitMiles DistanceUnit = "miles"
	DistanceUnitKm    DistanceUnit = "km"
)

// ValidDistanceUnit reports whether u is a known distance unit.
func ValidDistanceUnit(u DistanceUnit) bool {
	return u == DistanceUnitMiles || u == DistanceUnitKm
}

// ValidSetWeightUnit reports whether u may be attached to a set's weight.
func ValidSetWeightUnit(u WeightUnit) bool {
	return u == WeightUnitLbs || u == WeightUnitKg || u == WeightUnitBodyweight
}

// WorkoutSession is one workout attempt. A session with EndTime == nil is
// "active"; at most one active session may exist per user at any time.
type WorkoutSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	StartTime time.Time  `gorm:"not null" json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	User      User              `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutSessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"exercises,omitempty"`
}

// IsActive reports whether the session has not been completed yet.
func (s *WorkoutSession) IsActive() bool {
	return s.EndTime == nil
}

// WorkoutExercise places an Exercise into a WorkoutSession at a position.
// OrderIndex is 0-based and unique within the session; gaps are allowed.
// ExerciseID is nullable: deleting a custom exercise keeps historical rows
// (ON DELETE SET NULL), so responses must tolerate a missing exercise.
type WorkoutExercise struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutSessionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_workout_exercises_order,priority:1" json:"workoutSessionId"`
	ExerciseID       *uuid.UUID `gorm:"type:uuid;index" json:"exerciseId"`
	OrderIndex       int        `gorm:"not null;uniqueIndex:idx_workout_exercises_order,priority:2" json:"orderIndex"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Session  WorkoutSession `gorm:"foreignKey:WorkoutSessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Exercise *Exercise      `gorm:"foreignKey:ExerciseID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"exercise,omitempty"`
	Sets     []WorkoutSet   `gorm:"foreignKey:WorkoutExerciseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"sets,omitempty"`
}

// WorkoutSet is one set of an exercise instance. SetNumber is 1-based and
// unique within the instance. Exactly one metric group is populated,
// matching the parent exercise's type.
type WorkoutSet struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutExerciseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workout_sets_number,priority:1" json:"workoutExerciseId"`
	SetNumber         int       `gorm:"not null;uniqueIndex:idx_workout_sets_number,priority:2" json:"setNumber"`
	Completed         bool      `gorm:"not null;default:false" json:"completed"`

	// Strength metrics.
	Reps       *int        `json:"reps,omitempty"`
	Weight     *float64    `json:"weight,omitempty"`
	WeightUnit *WeightUnit `json:"weightUnit,omitempty"`

	// Cardio metrics.
	Duration     *int          `json:"duration,omitempty"` // seconds
	Distance     *float64      `json:"distance,omitempty"`
	DistanceUnit *DistanceUnit `json:"distanceUnit,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	WorkoutExercise WorkoutExercise `gorm:"foreignKey:WorkoutExerciseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// FieldError is a request-level validation failure attributable to a single
// payload field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SetMetrics carries the type-gated portion of a set payload, before it has
// been validated against the parent exercise's type.
type SetMetrics struct {
	Reps         *int
	Weight       *float64
	WeightUnit   *WeightUnit
	Duration     *int
	Distance     *float64
	DistanceUnit *DistanceUnit
}

// ValidateSetMetrics checks m against the exercise type. With requireCore
// set (creation), the type's core metric (reps or duration) must be present;
// on updates only the supplied fields are checked. Fields belonging to the
// other type group are always rejected.
func ValidateSetMetrics(exType ExerciseType, m SetMetrics, requireCore bool) error {
	switch exType {
	case TypeStrength:
		if m.Duration != nil {
			return &FieldError{Field: "duration", Message: "not allowed on a strength exercise"}
		}
		if m.Distance != nil {
			return &FieldError{Field: "distance", Message: "not allowed on a strength exercise"}
		}
		if m.DistanceUnit != nil {
			return &FieldError{Field: "distanceUnit", Message: "not allowed on a strength exercise"}
		}
		if requireCore && m.Reps == nil {
			return &FieldError{Field: "reps", Message: "required for a strength exercise"}
		}
		if m.Reps != nil && *m.Reps <= 0 {
			return &FieldError{Field: "reps", Message: "must be a positive integer"}
		}
		if m.Weight != nil {
			if *m.Weight < 0 {
				return &FieldError{Field: "weight", Message: "must be zero or greater"}
			}
			if m.WeightUnit == nil {
				return &FieldError{Field: "weightUnit", Message: "required when weight is supplied"}
			}
		}
		if m.WeightUnit != nil && !ValidSetWeightUnit(*m.WeightUnit) {
			return &FieldError{Field: "weightUnit", Message: "must be one of lbs, kg, bodyweight"}
		}
	case TypeCardio:
		if m.Reps != nil {
			return &FieldError{Field: "reps", Message: "not allowed on a cardio exercise"}
		}
		if m.Weight != nil {
			return &FieldError{Field: "weight", Message: "not allowed on a cardio exercise"}
		}
		if m.WeightUnit != nil {
			return &FieldError{Field: "weightUnit", Message: "not allowed on a cardio exercise"}
		}
		if requireCore && m.Duration == nil {
			return &FieldError{Field: "duration", Message: "required for a cardio exercise"}
		}
		if m.Duration != nil && *m.Duration <= 0 {
			return &FieldError{Field: "duration", Message: "must be a positive number of seconds"}
		}
		if m.Distance != nil {
			if *m.Distance < 0 {
				return &FieldError{Field: "distance", Message: "must be zero or greater"}
			}
			if m.DistanceUnit == nil {
				return &FieldError{Field: "distanceUnit", Message: "required when distance is supplied"}
			}
		}
		if m.DistanceUnit != nil && !ValidDistanceUnit(*m.DistanceUnit) {
			return &FieldError{Field: "distanceUnit", Message: "must be one of miles, km"}
		}
	default:
		return fmt.Errorf("unknown exercise type %q", exType)
	}
	return nil
}

// Apply copies the supplied metric fields onto the set. Validation must
// have happened first.
func (m SetMetrics) Apply(set *WorkoutSet) {
	if m.Reps != nil {
		set.Reps = m.Reps
	}
	if m.Weight != nil {
		set.Weight = m.Weight
	}
	if m.WeightUnit != nil {
		set.WeightUnit = m.WeightUnit
	}
	if m.Duration != nil {
		set.Duration = m.Duration
	}
	if m.Distance != nil {
		set.Distance = m.Distance
	}
	if m.DistanceUnit != nil {
		set.DistanceUnit = m.DistanceUnit
	}
}
