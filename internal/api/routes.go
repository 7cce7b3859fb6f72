package api

import (
	"alcyxob/workout-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers into the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	allowedOrigins []string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	workoutExerciseHandler := NewWorkoutExerciseHandler(workoutService)
	workoutSetHandler := NewWorkoutSetHandler(workoutService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/oidc", authHandler.OIDCLogin)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PATCH("/me", authHandler.UpdateMe)

		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.POST("", exerciseHandler.CreateExercise)
			exercises.GET("/:id", exerciseHandler.GetExercise)
			exercises.PATCH("/:id", exerciseHandler.UpdateExercise)
			exercises.DELETE("/:id", exerciseHandler.DeleteExercise)
			exercises.POST("/:id/video", exerciseHandler.PresignDemoUpload)
			exercises.GET("/:id/video", exerciseHandler.GetDemoVideo)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.POST("", workoutHandler.StartWorkout)
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/active", workoutHandler.GetActiveWorkout)
			workouts.GET("/:wid", workoutHandler.GetWorkout)
			workouts.PATCH("/:wid", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:wid", workoutHandler.DeleteWorkout)

			workouts.POST("/:wid/exercises", workoutExerciseHandler.AddExercise)
			workouts.GET("/:wid/exercises", workoutExerciseHandler.ListExercises)
			workouts.PATCH("/:wid/exercises/:eid", workoutExerciseHandler.UpdateExercise)
			workouts.DELETE("/:wid/exercises/:eid", workoutExerciseHandler.RemoveExercise)

			workouts.POST("/:wid/exercises/:eid/sets", workoutSetHandler.AddSet)
			workouts.PATCH("/:wid/exercises/:eid/sets/:sid", workoutSetHandler.UpdateSet)
			workouts.DELETE("/:wid/exercises/:eid/sets/:sid", workoutSetHandler.DeleteSet)
		}
	}
}
