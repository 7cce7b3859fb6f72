package api

import (
	"alcyxob/workout-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkoutExerciseHandler covers the exercise-instance routes nested under
// a workout.
type WorkoutExerciseHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutExerciseHandler creates a new WorkoutExerciseHandler.
func NewWorkoutExerciseHandler(workoutService service.WorkoutService) *WorkoutExerciseHandler {
	return &WorkoutExerciseHandler{workoutService: workoutService}
}

// --- DTOs ---

type AddWorkoutExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required,uuid"`
	OrderIndex *int   `json:"orderIndex"`
	Notes      string `json:"notes"`
}

type UpdateWorkoutExerciseRequest struct {
	OrderIndex *int    `json:"orderIndex"`
	Notes      *string `json:"notes"`
}

// --- Handler Methods ---

// AddExercise godoc
// @Summary Add an exercise to a workout
// @Description Without orderIndex the next free 0-based index is assigned; a supplied index that collides is rejected.
// @Tags WorkoutExercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param exercise body AddWorkoutExerciseRequest true "Exercise reference"
// @Success 201 {object} WorkoutExerciseResponse
// @Failure 400 {object} gin.H "Bad exercise id or order collision"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{wid}/exercises [post]
func (h *WorkoutExerciseHandler) AddExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}

	var req AddWorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	we, err := h.workoutService.AddExercise(c.Request.Context(), userID, sessionID, exerciseID, req.OrderIndex, req.Notes)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutExerciseToResponse(we))
}

// ListExercises godoc
// @Summary List a workout's exercises with their sets
// @Tags WorkoutExercises
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Success 200 {array} WorkoutExerciseResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{wid}/exercises [get]
func (h *WorkoutExerciseHandler) ListExercises(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}

	instances, err := h.workoutService.ListExercises(c.Request.Context(), userID, sessionID)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	responses := make([]WorkoutExerciseResponse, len(instances))
	for i := range instances {
		responses[i] = MapWorkoutExerciseToResponse(&instances[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateExercise godoc
// @Summary Update an exercise instance's position or notes
// @Tags WorkoutExercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param eid path string true "Workout exercise ID"
// @Param exercise body UpdateWorkoutExerciseRequest true "Fields to update"
// @Success 200 {object} WorkoutExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid}/exercises/{eid} [patch]
func (h *WorkoutExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}
	instanceID, ok := pathUUID(c, "eid")
	if !ok {
		return
	}

	var req UpdateWorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	we, err := h.workoutService.UpdateExercise(c.Request.Context(), userID, sessionID, instanceID, req.OrderIndex, req.Notes)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutExerciseToResponse(we))
}

// RemoveExercise godoc
// @Summary Remove an exercise instance and its sets from a workout
// @Tags WorkoutExercises
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param eid path string true "Workout exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid}/exercises/{eid} [delete]
func (h *WorkoutExerciseHandler) RemoveExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}
	instanceID, ok := pathUUID(c, "eid")
	if !ok {
		return
	}

	if err := h.workoutService.RemoveExercise(c.Request.Context(), userID, sessionID, instanceID); err != nil {
		mapServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
