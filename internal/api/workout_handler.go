package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type StartWorkoutRequest struct {
	StartTime *time.Time `json:"startTime"`
	Notes     string     `json:"notes"`
}

// UpdateWorkoutRequest distinguishes `"endTime": null` (reopen the workout)
// from an absent endTime field, which plain pointer fields cannot express.
type UpdateWorkoutRequest struct {
	StartTime    *time.Time
	EndTime      *time.Time
	ClearEndTime bool
	Notes        *string
}

func (r *UpdateWorkoutRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartTime *time.Time      `json:"startTime"`
		EndTime   json.RawMessage `json:"endTime"`
		Notes     *string         `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.StartTime = raw.StartTime
	r.Notes = raw.Notes
	if raw.EndTime != nil {
		if string(raw.EndTime) == "null" {
			r.ClearEndTime = true
		} else {
			var t time.Time
			if err := json.Unmarshal(raw.EndTime, &t); err != nil {
				return err
			}
			r.EndTime = &t
		}
	}
	return nil
}

// WorkoutSessionResponse is the DTO for a workout session, optionally with
// its nested exercises and sets.
type WorkoutSessionResponse struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	StartTime time.Time                 `json:"startTime"`
	EndTime   *time.Time                `json:"endTime"`
	Notes     string                    `json:"notes"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
	Exercises []WorkoutExerciseResponse `json:"exercises,omitempty"`
}

type WorkoutExerciseResponse struct {
	ID               string               `json:"id"`
	WorkoutSessionID string               `json:"workoutSessionId"`
	Exercise         *ExerciseResponse    `json:"exercise"`
	OrderIndex       int                  `json:"orderIndex"`
	Notes            string               `json:"notes"`
	Sets             []WorkoutSetResponse `json:"sets"`
}

type WorkoutSetResponse struct {
	ID           string   `json:"id"`
	SetNumber    int      `json:"setNumber"`
	Completed    bool     `json:"completed"`
	Reps         *int     `json:"reps,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	WeightUnit   *string  `json:"weightUnit,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	DistanceUnit *string  `json:"distanceUnit,omitempty"`
}

type PaginationResponse struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

type WorkoutListResponse struct {
	Workouts   []WorkoutSessionResponse `json:"workouts"`
	Pagination PaginationResponse       `json:"pagination"`
}

// MapSessionToResponse converts a domain.WorkoutSession to its DTO,
// including nested exercises/sets when they were loaded.
func MapSessionToResponse(s *domain.WorkoutSession) WorkoutSessionResponse {
	if s == nil {
		return WorkoutSessionResponse{}
	}
	resp := WorkoutSessionResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i := range s.Exercises {
		resp.Exercises = append(resp.Exercises, MapWorkoutExerciseToResponse(&s.Exercises[i]))
	}
	return resp
}

// MapWorkoutExerciseToResponse converts a domain.WorkoutExercise to its
// DTO. Exercise is null when the definition has since been deleted.
func MapWorkoutExerciseToResponse(we *domain.WorkoutExercise) WorkoutExerciseResponse {
	if we == nil {
		return WorkoutExerciseResponse{}
	}
	resp := WorkoutExerciseResponse{
		ID:               we.ID.String(),
		WorkoutSessionID: we.WorkoutSessionID.String(),
		OrderIndex:       we.OrderIndex,
		Notes:            we.Notes,
		Sets:             []WorkoutSetResponse{},
	}
	if we.Exercise != nil {
		ex := MapExerciseToResponse(we.Exercise)
		resp.Exercise = &ex
	}
	for i := range we.Sets {
		resp.Sets = append(resp.Sets, MapSetToResponse(&we.Sets[i]))
	}
	return resp
}

// MapSetToResponse converts a domain.WorkoutSet to its DTO.
func MapSetToResponse(set *domain.WorkoutSet) WorkoutSetResponse {
	if set == nil {
		return WorkoutSetResponse{}
	}
	resp := WorkoutSetResponse{
		ID:        set.ID.String(),
		SetNumber: set.SetNumber,
		Completed: set.Completed,
		Reps:      set.Reps,
		Weight:    set.Weight,
		Duration:  set.Duration,
		Distance:  set.Distance,
	}
	if set.WeightUnit != nil {
		u := string(*set.WeightUnit)
		resp.WeightUnit = &u
	}
	if set.DistanceUnit != nil {
		u := string(*set.DistanceUnit)
		resp.DistanceUnit = &u
	}
	return resp
}

// --- Handler Methods ---

// StartWorkout godoc
// @Summary Start a new workout session
// @Description Fails with 409 when the caller already has an active workout; the response carries its id.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body StartWorkoutRequest false "Optional start time and notes"
// @Success 201 {object} WorkoutSessionResponse
// @Failure 409 {object} gin.H "Active workout exists"
// @Router /workouts [post]
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req StartWorkoutRequest
	// An empty body is allowed: startTime defaults to now.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	session, err := h.workoutService.StartWorkout(c.Request.Context(), userID, req.StartTime, req.Notes)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// ListWorkouts godoc
// @Summary List the caller's workout sessions
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Param status query string false "Filter: active or completed"
// @Success 200 {object} WorkoutListResponse
// @Failure 400 {object} gin.H "Bad status filter"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := c.Query("status")

	result, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, status, limit, offset)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	workouts := make([]WorkoutSessionResponse, len(result.Workouts))
	for i := range result.Workouts {
		workouts[i] = MapSessionToResponse(&result.Workouts[i])
	}
	c.JSON(http.StatusOK, WorkoutListResponse{
		Workouts: workouts,
		Pagination: PaginationResponse{
			Limit:  result.Limit,
			Offset: result.Offset,
			Total:  result.Total,
		},
	})
}

// GetActiveWorkout godoc
// @Summary Get the caller's active workout, if any
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} WorkoutSessionResponse
// @Success 204 "No active workout"
// @Router /workouts/active [get]
func (h *WorkoutHandler) GetActiveWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	session, err := h.workoutService.GetActiveWorkout(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveWorkout) {
			c.Status(http.StatusNoContent)
			return
		}
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// GetWorkout godoc
// @Summary Get a workout with its exercises and sets
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Success 200 {object} WorkoutSessionResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}

	session, err := h.workoutService.GetWorkoutDetail(c.Request.Context(), userID, sessionID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// UpdateWorkout godoc
// @Summary Complete or edit a workout
// @Description Setting endTime completes the workout; an explicit null endTime reopens it, subject to the one-active rule.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Fields to update"
// @Success 200 {object} WorkoutSessionResponse
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Reopen would violate the one-active rule"
// @Router /workouts/{wid} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, sessionID, service.WorkoutUpdate{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ClearEndTime: req.ClearEndTime,
		Notes:        req.Notes,
	})
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteWorkout godoc
// @Summary Delete a workout and everything recorded in it
// @Tags Workouts
// @Security BearerAuth
// @Param wid path string true "Workout ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{wid} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	sessionID, ok := pathUUID(c, "wid")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, sessionID); err != nil {
		mapServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
