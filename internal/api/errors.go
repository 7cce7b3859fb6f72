package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// mapServiceError translates service-layer failures to the HTTP error
// taxonomy. Anything unrecognized is logged and collapsed to a generic 500
// so internals never leak to the caller.
func mapServiceError(c *gin.Context, err error) {
	var fieldErr *domain.FieldError
	var activeErr *service.ActiveWorkoutError

	switch {
	case errors.As(err, &fieldErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": fieldErr.Error(),
			"field": fieldErr.Field,
		})
	case errors.As(err, &activeErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":           "An active workout already exists",
			"activeWorkoutId": activeErr.ActiveWorkoutID.String(),
		})
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrWorkoutExerciseNotFound),
		errors.Is(err, service.ErrSetNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNoDemoVideo):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLibraryExerciseFrozen):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateExerciseName),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrOrderIndexTaken),
		errors.Is(err, service.ErrSetNumberTaken),
		errors.Is(err, service.ErrBadStatusFilter):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrOIDCExchangeFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrOIDCDisabled),
		errors.Is(err, service.ErrMediaDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
