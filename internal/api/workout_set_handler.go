package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkoutSetHandler covers the set routes nested under an exercise
// instance.
type WorkoutSetHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutSetHandler creates a new WorkoutSetHandler.
func NewWorkoutSetHandler(workoutService service.WorkoutService) *WorkoutSetHandler {
	return &WorkoutSetHandler{workoutService: workoutService}
}

// --- DTOs ---

type AddSetRequest struct {
	SetNumber    *int     `json:"setNumber"`
	Completed    bool     `json:"completed"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
	WeightUnit   *string  `json:"weightUnit"`
	Duration     *int     `json:"duration"`
	Distance     *float64 `json:"distance"`
	DistanceUnit *string  `json:"distanceUnit"`
}

type UpdateSetRequest struct {
	Completed    *bool    `json:"completed"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
	WeightUnit   *string  `json:"weightUnit"`
	Duration     *int     `json:"duration"`
	Distance     *float64 `json:"distance"`
	DistanceUnit *string  `json:"distanceUnit"`
}

func metricsFromRequest(reps *int, weight *float64, weightUnit *string, duration *int, distance *float64, distanceUnit *string) domain.SetMetrics {
	m := domain.SetMetrics{
		Reps:     reps,
		Weight:   weight,
		Duration: duration,
		Distance: distance,
	}
	if weightUnit != nil {
		u := domain.WeightUnit(*weightUnit)
		m.WeightUnit = &u
	}
	if distanceUnit != nil {
		u := domain.DistanceUnit(*distanceUnit)
		m.DistanceUnit = &u
	}
	return m
}

// --- Handler Methods ---

// AddSet godoc
// @Summary Record a set for an exercise instance
// @Description The payload must match the exercise's type: strength needs reps, cardio needs duration. Without setNumber the next free 1-based number is assigned.
// @Tags Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param eid path string true "Workout exercise ID"
// @Param set body AddSetRequest true "Set payload"
// @Success 201 {object} WorkoutSetResponse
// @Failure 400 {object} gin.H "Type mismatch or number collision"
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid}/exercises/{eid}/sets [post]
func (h *WorkoutSetHandler) AddSet(c *gin.Context) {
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

	var req AddSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	metrics := metricsFromRequest(req.Reps, req.Weight, req.WeightUnit, req.Duration, req.Distance, req.DistanceUnit)
	set, err := h.workoutService.AddSet(c.Request.Context(), userID, sessionID, instanceID, req.SetNumber, req.Completed, metrics)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSetToResponse(set))
}

// UpdateSet godoc
// @Summary Update a recorded set
// @Description Supplied metric fields are validated against the exercise's type; fields of the other type group are rejected.
// @Tags Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param eid path string true "Workout exercise ID"
// @Param sid path string true "Set ID"
// @Param set body UpdateSetRequest true "Fields to update"
// @Success 200 {object} WorkoutSetResponse
// @Failure 400 {object} gin.H "Type mismatch"
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid}/exercises/{eid}/sets/{sid} [patch]
func (h *WorkoutSetHandler) UpdateSet(c *gin.Context) {
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
	setID, ok := pathUUID(c, "sid")
	if !ok {
		return
	}

	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	metrics := metricsFromRequest(req.Reps, req.Weight, req.WeightUnit, req.Duration, req.Distance, req.DistanceUnit)
	set, err := h.workoutService.UpdateSet(c.Request.Context(), userID, sessionID, instanceID, setID, req.Completed, metrics)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSetToResponse(set))
}

// DeleteSet godoc
// @Summary Delete a recorded set
// @Tags Sets
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param eid path string true "Workout exercise ID"
// @Param sid path string true "Set ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid}/exercises/{eid}/sets/{sid} [delete]
func (h *WorkoutSetHandler) DeleteSet(c *gin.Context) {
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
	setID, ok := pathUUID(c, "sid")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteSet(c.Request.Context(), userID, sessionID, instanceID, setID); err != nil {
		mapServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
