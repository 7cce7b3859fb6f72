package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseCategory groups exercises for browsing.
type ExerciseCategory string

const (
	CategoryPush   ExerciseCategory = "push"
	CategoryPull   ExerciseCategory = "pull"
	CategoryLegs   ExerciseCategory = "legs"
	CategoryCore   ExerciseCategory = "core"
	CategoryCardio ExerciseCategory = "cardio"
)

// ValidExerciseCategory reports whether c is a known category.
func ValidExerciseCategory(c ExerciseCategory) bool {
	switch c {
	case CategoryPush, CategoryPull, CategoryLegs, CategoryCore, CategoryCardio:
		return true
	}
	return false
}

// ExerciseType is the immutable classification that governs which set
// fields are legal (reps/weight vs duration/distance).
type ExerciseType string

const (
	TypeStrength ExerciseType = "strength"
	TypeCardio   ExerciseType = "cardio"
)

// ValidExerciseType reports whether t is a known type.
func ValidExerciseType(t ExerciseType) bool {
	return t == TypeStrength || t == TypeCardio
}

// Exercise is a named movement. Library exercises (IsCustom=false) are
// seeded once, shared read-only across all users and owned by nobody.
// Custom exercises belong to exactly one user; their names are unique
// per owner, case-insensitively.
type Exercise struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"not null" json:"name"`
	Category     ExerciseCategory `gorm:"not null" json:"category"`
	Type         ExerciseType     `gorm:"not null" json:"type"`
	IsCustom     bool             `gorm:"not null;default:false" json:"isCustom"`
	UserID       *uuid.UUID       `gorm:"type:uuid;index" json:"userId,omitempty"`
	DemoVideoKey *string          `json:"-"` // object key in media storage
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`

	Owner *User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
