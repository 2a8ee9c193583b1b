package controllers

import (
	"errors"
	"net/http"

	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto HTTP statuses. Storage
// failures are reported without their cause.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", err)
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", services.ErrUnauthorized)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrTableNotFound):
		utils.RespondErrorCode(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrNoAvailability):
		utils.RespondErrorCode(c, http.StatusConflict, "no_availability", services.ErrNoAvailability)
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrCapacityExceeded):
		utils.RespondErrorCode(c, http.StatusConflict, "conflict", err)
	default:
		_ = c.Error(err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, "storage", errors.New("internal error, try again"))
	}
}
