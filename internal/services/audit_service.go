package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/utils"
)

// Audit actions
const (
	ActionSignup           = "signup"
	ActionLoginSuccess     = "login_success"
	ActionLoginFailed      = "login_failed"
	ActionBookingCreated   = "booking_created"
	ActionBookingCancelled = "booking_cancelled"
	ActionTurfCreated      = "turf_created"
	ActionTurfUpdated      = "turf_updated"
	ActionTurfDeleted      = "turf_deleted"
)

// RequestMeta identifies the client behind an audited action
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     uuid.UUID              // uuid.Nil for pre-authentication events
	Action     string                 // Action type (e.g., "login_success", "booking_created")
	EntityType string                 // Type of entity affected (e.g., "booking", "turf")
	EntityID   uuid.UUID              // ID of the affected entity (can be uuid.Nil)
	Meta       RequestMeta            // Client IP and user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// AuditService handles audit logging for security and booking events.
// Write failures are logged and never surface to the caller.
type AuditService struct {
	store   AuditStore
	enabled bool
	logger  logrus.FieldLogger
}

// NewAuditService creates a new audit service
func NewAuditService(store AuditStore, enabled bool, logger logrus.FieldLogger) *AuditService {
	return &AuditService{
		store:   store,
		enabled: enabled,
		logger:  logger,
	}
}

// LogSignup logs a new account
func (s *AuditService) LogSignup(ctx context.Context, userID uuid.UUID, email string, meta RequestMeta) {
	s.Record(ctx, AuditEvent{
		UserID:     userID,
		Action:     ActionSignup,
		EntityType: "profile",
		EntityID:   userID,
		Meta:       meta,
		Details:    map[string]interface{}{"email": email},
	})
}

// LogLogin logs a sign-in attempt
func (s *AuditService) LogLogin(ctx context.Context, userID uuid.UUID, email string, success bool, reason string, meta RequestMeta) {
	details := map[string]interface{}{
		"email":   email,
		"success": success,
	}
	if !success && reason != "" {
		details["failure_reason"] = reason
	}

	action := ActionLoginFailed
	if success {
		action = ActionLoginSuccess
	}

	s.Record(ctx, AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "profile",
		EntityID:   userID,
		Meta:       meta,
		Details:    details,
	})
}

// LogBookingCreated logs a new booking
func (s *AuditService) LogBookingCreated(ctx context.Context, userID uuid.UUID, booking *models.Booking, meta RequestMeta) {
	s.Record(ctx, AuditEvent{
		UserID:     userID,
		Action:     ActionBookingCreated,
		EntityType: "booking",
		EntityID:   booking.ID,
		Meta:       meta,
		Details: map[string]interface{}{
			"turf_id":      booking.TurfID,
			"booking_date": booking.BookingDate.String(),
			"start_time":   booking.StartTime,
			"total_price":  booking.TotalPrice.String(),
		},
	})
}

// LogBookingCancelled logs a cancellation
func (s *AuditService) LogBookingCancelled(ctx context.Context, userID uuid.UUID, booking *models.Booking, meta RequestMeta) {
	s.Record(ctx, AuditEvent{
		UserID:     userID,
		Action:     ActionBookingCancelled,
		EntityType: "booking",
		EntityID:   booking.ID,
		Meta:       meta,
		Details: map[string]interface{}{
			"turf_id":      booking.TurfID,
			"booking_date": booking.BookingDate.String(),
			"start_time":   booking.StartTime,
		},
	})
}

// LogTurfChange logs an admin catalogue change
func (s *AuditService) LogTurfChange(ctx context.Context, action string, adminID, turfID uuid.UUID, meta RequestMeta) {
	s.Record(ctx, AuditEvent{
		UserID:     adminID,
		Action:     action,
		EntityType: "turf",
		EntityID:   turfID,
		Meta:       meta,
	})
}

// Record writes one audit row with the parsed device info attached
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	if !s.enabled {
		return
	}

	details := map[string]interface{}{}
	for k, v := range event.Details {
		details[k] = v
	}
	details["device_info"] = utils.ParseUserAgent(event.Meta.UserAgent)

	raw, err := json.Marshal(details)
	if err != nil {
		s.logFailure(event, err)
		return
	}

	entry := &models.AuditLog{
		UserID:     uuid.NullUUID{UUID: event.UserID, Valid: event.UserID != uuid.Nil},
		Action:     event.Action,
		EntityType: nullString(event.EntityType),
		EntityID:   uuid.NullUUID{UUID: event.EntityID, Valid: event.EntityID != uuid.Nil},
		IPAddress:  nullString(event.Meta.IPAddress),
		UserAgent:  nullString(event.Meta.UserAgent),
		Details:    nullString(string(raw)),
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		s.logFailure(event, err)
	}
}

func (s *AuditService) logFailure(event AuditEvent, err error) {
	s.logger.WithFields(logrus.Fields{
		"action": event.Action,
		"error":  err.Error(),
	}).Error("AUDIT ERROR")
}
