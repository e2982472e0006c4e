package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

// TurfHandler serves the public turf catalogue and slot calendar
type TurfHandler struct {
	turfs    TurfCatalog
	bookings BookingManager
	logger   logrus.FieldLogger
	now      Clock
}

// NewTurfHandler creates a new turf handler
func NewTurfHandler(turfs TurfCatalog, bookings BookingManager, logger logrus.FieldLogger) *TurfHandler {
	return &TurfHandler{
		turfs:    turfs,
		bookings: bookings,
		logger:   logger,
		now:      clockOrNow(nil),
	}
}

// List handles GET /api/v1/turfs?search=&location=&feature=
func (h *TurfHandler) List(c *gin.Context) {
	var filter models.TurfFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid search filters")
		return
	}

	turfs, err := h.turfs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"turfs": turfs,
		"count": len(turfs),
	})
}

// Get handles GET /api/v1/turfs/:id
func (h *TurfHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	turf, err := h.turfs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, turf)
}

// Slots handles GET /api/v1/turfs/:id/slots?date=YYYY-MM-DD
func (h *TurfHandler) Slots(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		badRequest(c, "date must be in YYYY-MM-DD format")
		return
	}

	slots, err := h.bookings.Slots(c.Request.Context(), id, date, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}
