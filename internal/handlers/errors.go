package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/models"
	"stature-backend/internal/services"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidPackage):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrOrderAlreadyCancelled), errors.Is(err, services.ErrPaymentReused):
		return http.StatusConflict
	case errors.Is(err, services.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Internal errors are reported
// with the fallback text only; the cause goes to the log.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse{Error: fallback})
		return
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}
