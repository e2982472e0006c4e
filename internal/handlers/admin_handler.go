package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/pkg/format"
)

// AdminHandler handles the admin dashboard and turf management
type AdminHandler struct {
	reports AdminReporter
	turfs   TurfCatalog
	audit   Auditor
	logger  logrus.FieldLogger
	now     Clock
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reports AdminReporter, turfs TurfCatalog, audit Auditor, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		reports: reports,
		turfs:   turfs,
		audit:   auditorOrNoop(audit),
		logger:  logger,
		now:     clockOrNow(nil),
	}
}

// DashboardStats handles GET /api/v1/admin/dashboard/stats
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// adminBooking adds display labels to an admin listing row
type adminBooking struct {
	models.BookingWithTurf
	TurfDisplayName string `json:"turf_display_name"`
	UserLabel       string `json:"user_label"`
	DateLabel       string `json:"date_label"`
	CreatedLabel    string `json:"created_label"`
}

// ListBookings handles GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.reports.Bookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	rows := make([]adminBooking, 0, len(bookings))
	for i := range bookings {
		rows = append(rows, adminBooking{
			BookingWithTurf: bookings[i],
			TurfDisplayName: bookings[i].TurfNameOrDefault(),
			UserLabel:       bookings[i].UserLabel(),
			DateLabel:       format.ShortDate(bookings[i].BookingDate.Time),
			CreatedLabel:    format.DateTime(bookings[i].CreatedAt),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": rows,
		"count":    len(rows),
	})
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.reports.Users(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// CreateTurf handles POST /api/v1/admin/turfs
func (h *AdminHandler) CreateTurf(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	req, ok := bindTurfRequest(c)
	if !ok {
		return
	}

	turf, err := h.turfs.Create(c.Request.Context(), req, admin.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogTurfChange(auditContext(c), services.ActionTurfCreated, admin.UserID, turf.ID, requestMeta(c))
	c.JSON(http.StatusCreated, turf)
}

// UpdateTurf handles PUT /api/v1/admin/turfs/:id
func (h *AdminHandler) UpdateTurf(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindTurfRequest(c)
	if !ok {
		return
	}

	turf, err := h.turfs.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogTurfChange(auditContext(c), services.ActionTurfUpdated, admin.UserID, id, requestMeta(c))
	c.JSON(http.StatusOK, turf)
}

// DeleteTurf handles DELETE /api/v1/admin/turfs/:id
func (h *AdminHandler) DeleteTurf(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.turfs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogTurfChange(auditContext(c), services.ActionTurfDeleted, admin.UserID, id, requestMeta(c))
	c.JSON(http.StatusOK, gin.H{"message": "Turf deleted"})
}

// bindTurfRequest decodes the turf form. Price and capacity must be numbers
// or numeric strings.
func bindTurfRequest(c *gin.Context) (models.TurfRequest, bool) {
	var req models.TurfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := "Invalid request body"
		if isNumberError(err) {
			message = "price and capacity must be numbers"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: message,
		})
		return req, false
	}
	return req, true
}

func isNumberError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field == "price" || typeErr.Field == "capacity"
	}
	return strings.Contains(err.Error(), "into Number")
}
