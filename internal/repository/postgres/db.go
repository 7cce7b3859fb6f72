package postgres

import (
	"alcyxob/workout-tracker/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a GORM connection to PostgreSQL and configures the pool.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates the schema plus the constraints AutoMigrate cannot
// express: the partial unique index that enforces at most one active
// session per user, and per-user case-insensitive custom-exercise names.
// The composite unique indexes on (session, order_index) and
// (instance, set_number) come from the model tags and are the race-safety
// backstop for concurrent position assignment.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Exercise{},
		&domain.WorkoutSession{},
		&domain.WorkoutExercise{},
		&domain.WorkoutSet{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_workout_sessions_one_active
		 ON workout_sessions (user_id) WHERE end_time IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_exercises_custom_name
		 ON exercises (user_id, lower(name)) WHERE is_custom`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// DefaultLibrary is the shared, read-only exercise library seeded at
// startup. Entries already present (matched by name) are left untouched.
var DefaultLibrary = []domain.Exercise{
	{Name: "Bench Press", Category: domain.CategoryPush, Type: domain.TypeStrength},
	{Name: "Overhead Press", Category: domain.CategoryPush, Type: domain.TypeStrength},
	{Name: "Pull-Up", Category: domain.CategoryPull, Type: domain.TypeStrength},
	{Name: "Barbell Row", Category: domain.CategoryPull, Type: domain.TypeStrength},
	{Name: "Squat", Category: domain.CategoryLegs, Type: domain.TypeStrength},
	{Name: "Deadlift", Category: domain.CategoryLegs, Type: domain.TypeStrength},
	{Name: "Plank", Category: domain.CategoryCore, Type: domain.TypeStrength},
	{Name: "Running", Category: domain.CategoryCardio, Type: domain.TypeCardio},
	{Name: "Cycling", Category: domain.CategoryCardio, Type: domain.TypeCardio},
	{Name: "Rowing Machine", Category: domain.CategoryCardio, Type: domain.TypeCardio},
}
