package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/mailer"
	"github.com/turfspot/turf-booking-backend/internal/metrics"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/notify"
)

// FunctionsHandler serves the two notification functions: one renders a
// booking email and logs it, the other relays an arbitrary email over SMTP.
type FunctionsHandler struct {
	mailer mailer.Mailer
	logger logrus.FieldLogger
}

// NewFunctionsHandler creates a new functions handler
func NewFunctionsHandler(m mailer.Mailer, logger logrus.FieldLogger) *FunctionsHandler {
	return &FunctionsHandler{
		mailer: m,
		logger: logger,
	}
}

// Options answers CORS preflight requests with an empty 200
func (h *FunctionsHandler) Options(c *gin.Context) {
	c.Status(http.StatusOK)
}

// SendBookingEmail handles POST /functions/v1/send-booking-email
func (h *FunctionsHandler) SendBookingEmail(c *gin.Context) {
	var req models.BookingEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.FunctionResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.FunctionResponse{Error: err.Error()})
		return
	}

	subject, body, err := notify.RenderBookingEmail(req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render booking email")
		c.JSON(http.StatusInternalServerError, models.FunctionResponse{Error: err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"to":         req.Email,
		"subject":    subject,
		"booking_id": req.Booking.ID,
		"body_bytes": len(body),
	}).Info("📧 Booking email rendered")

	c.JSON(http.StatusOK, models.FunctionResponse{
		Success: true,
		Message: "Email logged successfully",
	})
}

// SendEmail handles POST /functions/v1/send-email
func (h *FunctionsHandler) SendEmail(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.FunctionResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.FunctionResponse{Error: err.Error()})
		return
	}

	if err := h.mailer.Send(c.Request.Context(), req.To, req.Subject, req.Body); err != nil {
		metrics.EmailsRelayed.WithLabelValues("error").Inc()
		h.logger.WithFields(logrus.Fields{
			"to":    req.To,
			"error": err.Error(),
		}).Error("Failed to relay email")
		c.JSON(http.StatusInternalServerError, models.FunctionResponse{Error: err.Error()})
		return
	}

	metrics.EmailsRelayed.WithLabelValues("sent").Inc()
	c.JSON(http.StatusOK, models.FunctionResponse{
		Success: true,
		Message: "Email sent successfully",
	})
}
