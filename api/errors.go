package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
	"github.com/sirupsen/logrus"
)

// handleError maps service errors onto problem-details responses. Unknown
// errors are logged server-side and surfaced as a generic 500.
func handleError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httpx.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrTripNotFound):
		httpx.NotFound(c, "Trip not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		httpx.NotFound(c, "Booking not found")
	case errors.Is(err, domain.ErrForbidden):
		httpx.Forbidden(c, "Access denied to this booking")
	case errors.Is(err, domain.ErrAlreadyPaid):
		httpx.Conflict(c, "Booking is already paid")
	case errors.Is(err, domain.ErrBicyclesNotAllowed):
		httpx.BadRequest(c, "Bicycles are not allowed on this trip")
	case errors.Is(err, domain.ErrDogsNotAllowed):
		httpx.BadRequest(c, "Dogs are not allowed on this trip")
	case errors.Is(err, domain.ErrBookingExpired):
		httpx.BadRequest(c, "Booking has expired")
	case errors.Is(err, domain.ErrBookingConfirmed):
		httpx.BadRequest(c, "Cannot cancel a confirmed booking")
	case errors.Is(err, domain.ErrAmountMismatch):
		httpx.BadRequest(c, err.Error())
	default:
		log.WithError(err).Error("request failed")
		httpx.Internal(c)
	}
}
