package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/middleware"
	"github.com/turfspot/turf-booking-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Clock returns the current time; tests replace it
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

// respondError maps service and repository errors to HTTP responses.
// Unknown errors are logged and reported generically.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
			Field:   verr.Field,
		})
		return
	}

	var rlErr *services.RateLimitError
	if errors.As(err, &rlErr) {
		retry := int(time.Until(rlErr.RetryAfter).Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: rlErr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials", Message: "Invalid email or password"})
	case errors.Is(err, database.ErrTurfNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Turf not found"})
	case errors.Is(err, database.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Booking not found"})
	case errors.Is(err, database.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Profile not found"})
	case errors.Is(err, database.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot_taken", Message: "This time slot is already booked. Please choose another slot."})
	case errors.Is(err, database.ErrTurfInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "turf_in_use", Message: "This turf has bookings and cannot be deleted"})
	case errors.Is(err, database.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email_taken", Message: "An account with this email already exists"})
	case errors.Is(err, database.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already_cancelled", Message: "This booking is already cancelled"})
	case errors.Is(err, services.ErrNotCancellable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "not_cancellable", Message: "Bookings can only be cancelled at least 7 hours before the start time"})
	default:
		logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again.",
		})
	}
}

// currentUser returns the authenticated user or writes a 401
func currentUser(c *gin.Context) (middleware.UserContext, bool) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return middleware.UserContext{}, false
	}
	return user, true
}

// pathID parses a uuid path parameter or writes a 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
