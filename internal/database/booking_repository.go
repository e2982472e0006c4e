package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

const bookingWithTurfSelect = `
	SELECT b.id, b.turf_id, b.user_id, b.booking_date, b.start_time, b.end_time,
	       b.total_price, b.status, b.created_at, b.updated_at,
	       t.name AS turf_name, t.location AS turf_location, t.image_url AS turf_image_url,
	       p.email AS user_email, p.username AS user_name
	FROM bookings b
	LEFT JOIN turfs t ON t.id = b.turf_id
	LEFT JOIN profiles p ON p.id = b.user_id`

// BookingRepository handles booking database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// Create inserts a booking. A concurrent booking of the same active slot
// surfaces as ErrSlotTaken through the partial unique index.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	query := `
		INSERT INTO bookings (
			id, turf_id, user_id, booking_date, start_time, end_time,
			total_price, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.TurfID,
		booking.UserID,
		booking.BookingDate,
		booking.StartTime,
		booking.EndTime,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetWithTurf retrieves a booking joined with its turf summary
func (r *BookingRepository) GetWithTurf(ctx context.Context, id uuid.UUID) (*models.BookingWithTurf, error) {
	var booking models.BookingWithTurf
	query := bookingWithTurfSelect + ` WHERE b.id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// ListByUser returns the user's bookings, latest booking date first
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BookingWithTurf, error) {
	query := bookingWithTurfSelect + `
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC, b.created_at DESC`

	bookings := []models.BookingWithTurf{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}

	return bookings, nil
}

// ListAll returns every booking, most recently created first
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.BookingWithTurf, error) {
	query := bookingWithTurfSelect + ` ORDER BY b.created_at DESC`

	bookings := []models.BookingWithTurf{}
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// BookedSlots returns the start times already held on a turf for a date
func (r *BookingRepository) BookedSlots(ctx context.Context, turfID uuid.UUID, date models.Date) ([]string, error) {
	query := `
		SELECT start_time
		FROM bookings
		WHERE turf_id = $1 AND booking_date = $2 AND status <> 'cancelled'
		ORDER BY start_time
	`

	slots := []string{}
	if err := r.db.SelectContext(ctx, &slots, query, turfID, date); err != nil {
		return nil, fmt.Errorf("failed to get booked slots: %w", err)
	}

	return slots, nil
}

// UpdateStatus moves a booking to a new status. Cancelled bookings are final.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (time.Time, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'cancelled'
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(&updatedAt)
	if err == nil {
		return updatedAt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("failed to update booking status: %w", err)
	}

	var current models.BookingStatus
	err = r.db.GetContext(ctx, &current, `SELECT status FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrBookingNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get booking status: %w", err)
	}

	return time.Time{}, ErrAlreadyCancelled
}
