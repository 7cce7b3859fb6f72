package testutil

import (
	"os"
	"testing"

	"alcyxob/workout-tracker/internal/repository/postgres"
	"gorm.io/gorm"
)

// SetupTestDB creates a PostgreSQL test database connection with clean state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Use DATABASE_URL if set (for CI), otherwise use local development defaults
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Local development default (matches docker compose)
		dsn = "host=localhost user=workout password=workout123 dbname=workout_test port=5432 sslmode=disable"
	}

	db, err := postgres.Connect(dsn)
	if err != nil {
		t.Skipf("Failed to connect to test database (PostgreSQL may not be running): %v", err)
	}

	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	CleanDatabase(db)

	return db
}

// CleanDatabase truncates all tables to ensure clean test state.
func CleanDatabase(db *gorm.DB) {
	tables := []string{"workout_sets", "workout_exercises", "workout_sessions", "exercises", "users"}

	for _, table := range tables {
		var exists bool
		db.Raw("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = ?)", table).Scan(&exists)
		if exists {
			db.Exec("TRUNCATE TABLE " + table + " CASCADE")
		}
	}
}
