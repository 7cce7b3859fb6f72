package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeightUnit is the unit a weight value is expressed in.
type WeightUnit string

const (
	WeightUnitLbs        WeightUnit = "lbs"
	WeightUnitKg         WeightUnit = "kg"
	WeightUnitBodyweight WeightUnit = "bodyweight"
)

// ValidPreferredWeightUnit reports whether u is usable as a profile default.
// "bodyweight" is only meaningful on individual sets, not as a preference.
func ValidPreferredWeightUnit(u WeightUnit) bool {
	return u == WeightUnitLbs || u == WeightUnitKg
}

// User represents an account. Accounts are created either on first OIDC
// login (Subject set, PasswordHash empty) or through password registration
// (PasswordHash set, Subject nil).
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName         string     `gorm:"not null" json:"displayName"`
	PreferredWeightUnit WeightUnit `gorm:"not null;default:lbs" json:"preferredWeightUnit"`
	Subject             *string    `gorm:"uniqueIndex" json:"-"` // OIDC provider subject
	PasswordHash        string     `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
