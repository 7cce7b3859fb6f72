package main

import (
	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository/postgres"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Workout Tracker API
// @version 1.0
// @description API for tracking workout sessions, exercises, and sets.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Workout Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	db, err := postgres.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to Postgres: %v", err)
	}
	log.Println("Database connection established.")

	// --- Schema Migration ---
	log.Println("Running database migrations...")
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("FATAL: Migration failed: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := postgres.NewUserRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	sessionRepo := postgres.NewWorkoutSessionRepository(db)
	instanceRepo := postgres.NewWorkoutExerciseRepository(db)
	setRepo := postgres.NewWorkoutSetRepository(db)

	// --- Seed Exercise Library ---
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := exerciseRepo.SeedLibrary(seedCtx, postgres.DefaultLibrary); err != nil {
		log.Printf("ERROR: Failed to seed exercise library: %v", err)
	}
	cancelSeed()

	// --- Initialize Storage ---
	var mediaStorage storage.MediaStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing media storage...")
		mediaStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured, demo video endpoints disabled.")
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService, err := service.NewAuthService(context.Background(), userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.OIDC)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize auth service: %v", err)
	}
	exerciseService := service.NewExerciseService(exerciseRepo, mediaStorage)
	workoutService := service.NewWorkoutService(sessionRepo, instanceRepo, setRepo, exerciseRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Server.AllowedOrigins, authService, exerciseService, workoutService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
