package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// IsActive reports whether the status still holds the slot
func (s BookingStatus) IsActive() bool {
	return s != BookingCancelled
}

// Booking represents a reservation of a turf for a one-hour slot
type Booking struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TurfID      uuid.UUID       `json:"turf_id" db:"turf_id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	BookingDate Date            `json:"booking_date" db:"booking_date"`
	StartTime   string          `json:"start_time" db:"start_time"`
	EndTime     string          `json:"end_time" db:"end_time"`
	TotalPrice  decimal.Decimal `json:"total_price" db:"total_price"`
	Status      BookingStatus   `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// BookingWithTurf is a booking joined with the turf summary and, for admin
// listings, a resolved user label. Joined columns may be NULL when the turf
// or profile row has since been removed.
type BookingWithTurf struct {
	Booking
	TurfName     NullString `json:"turf_name" db:"turf_name"`
	TurfLocation NullString `json:"turf_location" db:"turf_location"`
	TurfImageURL NullString `json:"turf_image_url" db:"turf_image_url"`
	UserEmail    NullString `json:"user_email,omitempty" db:"user_email"`
	UserName     NullString `json:"user_name,omitempty" db:"user_name"`
}

// TurfNameOrDefault returns the joined turf name or a placeholder
func (b *BookingWithTurf) TurfNameOrDefault() string {
	if b.TurfName.Valid && b.TurfName.String != "" {
		return b.TurfName.String
	}
	return "Unknown turf"
}

// UserLabel resolves the display label used by the admin dashboard:
// username, then email, then a shortened user id.
func (b *BookingWithTurf) UserLabel() string {
	if b.UserName.Valid && b.UserName.String != "" {
		return b.UserName.String
	}
	if b.UserEmail.Valid && b.UserEmail.String != "" {
		return b.UserEmail.String
	}
	return "User " + b.UserID.String()[:8]
}

// CreateBookingRequest represents the request to book a slot
type CreateBookingRequest struct {
	TurfID      string `json:"turf_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if _, err := uuid.Parse(r.TurfID); err != nil {
		return errors.New("turf_id must be a valid id")
	}
	if _, err := ParseDate(r.BookingDate); err != nil {
		return errors.New("booking_date must be in YYYY-MM-DD format")
	}
	if strings.TrimSpace(r.StartTime) == "" {
		return errors.New("please select a time slot")
	}
	return nil
}
