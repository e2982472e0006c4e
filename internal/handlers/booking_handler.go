package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

// BookingHandler handles the signed-in user's bookings
type BookingHandler struct {
	bookings BookingManager
	audit    Auditor
	logger   logrus.FieldLogger
	now      Clock
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingManager, audit Auditor, logger logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		audit:    auditorOrNoop(audit),
		logger:   logger,
		now:      clockOrNow(nil),
	}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please select a turf, a date and a time slot")
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	turfID := uuid.MustParse(req.TurfID)
	date, _ := models.ParseDate(req.BookingDate)

	row, err := h.bookings.Create(c.Request.Context(), user.UserID, user.Email, turfID, date, req.StartTime, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogBookingCreated(auditContext(c), user.UserID, &row.Booking, requestMeta(c))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed",
		"booking": row,
	})
}

// List handles GET /api/v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.bookings.ListForUser(c.Request.Context(), user.UserID, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	row, err := h.bookings.Cancel(c.Request.Context(), user.UserID, id, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogBookingCancelled(auditContext(c), user.UserID, &row.Booking, requestMeta(c))

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled",
		"booking": row,
	})
}
