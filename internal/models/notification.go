package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// NotificationKind selects the email template
type NotificationKind string

const (
	NotifyConfirmation NotificationKind = "confirmation"
	NotifyCancellation NotificationKind = "cancellation"
)

// Valid reports whether the kind is known
func (k NotificationKind) Valid() bool {
	return k == NotifyConfirmation || k == NotifyCancellation
}

// BookingSummary is the booking part of a notification payload
type BookingSummary struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime"`
	TurfName  string          `json:"turfName"`
	Price     decimal.Decimal `json:"price"`
}

// BookingEmailRequest is the payload of the send-booking-email function
type BookingEmailRequest struct {
	Type    NotificationKind `json:"type"`
	Email   string           `json:"email"`
	Booking BookingSummary   `json:"booking"`
}

// Validate validates the booking email payload
func (r *BookingEmailRequest) Validate() error {
	if !r.Type.Valid() {
		return errors.New("type must be 'confirmation' or 'cancellation'")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid recipient email is required")
	}
	if r.Booking.ID == "" || r.Booking.Date == "" || r.Booking.StartTime == "" {
		return errors.New("booking id, date and startTime are required")
	}
	return nil
}

// EmailRequest is the payload of the send-email relay function
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate validates the relay payload
func (r *EmailRequest) Validate() error {
	if !strings.Contains(r.To, "@") {
		return errors.New("'to' must be a valid email address")
	}
	if strings.TrimSpace(r.Subject) == "" || strings.TrimSpace(r.Body) == "" {
		return errors.New("subject and body are required")
	}
	return nil
}

// FunctionResponse is the JSON envelope both notification functions reply with
type FunctionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
