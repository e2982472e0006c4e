package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/metrics"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/viewmodel"
	"github.com/turfspot/turf-booking-backend/pkg/timeslot"
)

// BookingService implements the booking lifecycle: create, list, cancel and
// the per-day slot calendar.
type BookingService struct {
	bookings  BookingStore
	turfs     TurfStore
	notifier  BookingNotifier
	loc       *time.Location
	openHour  int
	closeHour int
	logger    logrus.FieldLogger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	turfs TurfStore,
	notifier BookingNotifier,
	cfg config.BookingConfig,
	loc *time.Location,
	logger logrus.FieldLogger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		bookings:  bookings,
		turfs:     turfs,
		notifier:  notifier,
		loc:       loc,
		openHour:  cfg.OpenHour,
		closeHour: cfg.CloseHour,
		logger:    logger,
	}
}

// Location returns the timezone bookings are composed in
func (s *BookingService) Location() *time.Location {
	return s.loc
}

// Create books a one-hour slot for the user and sends a confirmation email
// in the background. A notification failure never fails the booking.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, email string, turfID uuid.UUID, date models.Date, startTime string, now time.Time) (*viewmodel.BookingRow, error) {
	if turfID == uuid.Nil {
		return nil, invalid("turf_id", "please select a turf")
	}
	if date.IsZero() {
		return nil, invalid("booking_date", "please select a date")
	}
	if strings.TrimSpace(startTime) == "" {
		return nil, invalid("start_time", "please select a time slot")
	}

	clock, err := timeslot.Parse(startTime)
	if err != nil {
		return nil, invalid("start_time", "invalid time slot %q", startTime)
	}
	start := clock.String()
	if !s.withinHours(start) {
		return nil, invalid("start_time", "%s is outside operating hours", start)
	}

	today := models.NewDate(now.In(s.loc))
	if date.Before(today) {
		return nil, invalid("booking_date", "booking date cannot be in the past")
	}
	at, err := timeslot.StartInstant(date.Time, start, s.loc)
	if err != nil {
		return nil, invalid("start_time", "invalid time slot %q", startTime)
	}
	if !at.After(now) {
		return nil, invalid("start_time", "this slot has already started")
	}

	turf, err := s.turfs.GetByID(ctx, turfID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.BookedSlots(ctx, turfID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	for _, b := range booked {
		if sameSlot(b, start) {
			return nil, database.ErrSlotTaken
		}
	}

	end, err := timeslot.EndTime(start)
	if err != nil {
		return nil, invalid("start_time", "invalid time slot %q", startTime)
	}

	booking := &models.Booking{
		TurfID:      turf.ID,
		UserID:      userID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		TotalPrice:  turf.PricePerHour,
		Status:      models.BookingConfirmed,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	metrics.BookingsCreated.Inc()

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"turf_id":    turf.ID,
		"date":       date.String(),
		"start_time": start,
	}).Info("Booking created")

	s.notifier.Notify(models.NotifyConfirmation, email, Summarize(booking, turf.Name))

	joined := models.BookingWithTurf{Booking: *booking}
	joined.TurfName = nullString(turf.Name)
	joined.TurfLocation = nullString(turf.Location)
	joined.TurfImageURL = turf.ImageURL

	row := viewmodel.NewRow(joined, s.canCancel(&joined, now))
	return &row, nil
}

// ListForUser returns the user's bookings, newest booking date first, each
// flagged with whether it can still be cancelled at now.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID, now time.Time) (viewmodel.BookingsView, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return viewmodel.BookingsView{}, err
	}

	rows := make([]viewmodel.BookingRow, 0, len(bookings))
	for i := range bookings {
		rows = append(rows, viewmodel.NewRow(bookings[i], s.canCancel(&bookings[i], now)))
	}
	return viewmodel.Reduce(viewmodel.BookingsView{}, viewmodel.Loaded{Rows: rows}), nil
}

// Cancel cancels one of the user's bookings and sends a cancellation email
// in the background. Another user's booking is reported as not found.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID, now time.Time) (*viewmodel.BookingRow, error) {
	current, err := s.bookings.GetWithTurf(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, database.ErrBookingNotFound
	}
	if current.Status == models.BookingCancelled {
		return nil, database.ErrAlreadyCancelled
	}
	if !s.canCancel(current, now) {
		return nil, ErrNotCancellable
	}

	updatedAt, err := s.bookings.UpdateStatus(ctx, bookingID, models.BookingCancelled)
	if err != nil {
		return nil, err
	}
	metrics.BookingsCancelled.Inc()

	current.Status = models.BookingCancelled
	current.UpdatedAt = updatedAt

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("Booking cancelled")

	if current.UserEmail.Valid && current.UserEmail.String != "" {
		s.notifier.Notify(models.NotifyCancellation, current.UserEmail.String, Summarize(&current.Booking, current.TurfNameOrDefault()))
	} else {
		s.logger.WithField("booking_id", bookingID).Warn("No email on file, skipping cancellation notice")
	}

	row := viewmodel.NewRow(*current, false)
	return &row, nil
}

// Slots returns the day calendar of a turf. A slot is unavailable when an
// active booking holds it or when it has already started.
func (s *BookingService) Slots(ctx context.Context, turfID uuid.UUID, date models.Date, now time.Time) (*models.TurfSlots, error) {
	turf, err := s.turfs.GetByID(ctx, turfID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.BookedSlots(ctx, turfID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}

	labels := timeslot.DaySlots(s.openHour, s.closeHour)
	slots := make([]models.SlotAvailability, 0, len(labels))
	for _, label := range labels {
		end, err := timeslot.EndTime(label)
		if err != nil {
			return nil, err
		}
		at, err := timeslot.StartInstant(date.Time, label, s.loc)
		if err != nil {
			return nil, err
		}

		taken := false
		for _, b := range booked {
			if sameSlot(b, label) {
				taken = true
				break
			}
		}

		slots = append(slots, models.SlotAvailability{
			StartTime: label,
			EndTime:   end,
			Available: !taken && at.After(now),
		})
	}

	return &models.TurfSlots{
		TurfID:       turf.ID,
		Date:         date,
		PricePerHour: turf.PricePerHour,
		Slots:        slots,
	}, nil
}

func (s *BookingService) canCancel(b *models.BookingWithTurf, now time.Time) bool {
	return timeslot.CanCancel(string(b.Status), b.BookingDate.Time, b.StartTime, now, s.loc)
}

func (s *BookingService) withinHours(start string) bool {
	for _, label := range timeslot.DaySlots(s.openHour, s.closeHour) {
		if label == start {
			return true
		}
	}
	return false
}

// sameSlot compares two start labels by clock value so "6:00 PM" and
// "06:00 PM" collide.
func sameSlot(a, b string) bool {
	ca, errA := timeslot.Parse(a)
	cb, errB := timeslot.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca.Hour24() == cb.Hour24() && ca.Minute == cb.Minute
}

func nullString(s string) models.NullString {
	var ns models.NullString
	ns.String = s
	ns.Valid = s != ""
	return ns
}

// IsNotFound reports whether err is one of the repository not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrTurfNotFound) ||
		errors.Is(err, database.ErrBookingNotFound) ||
		errors.Is(err, database.ErrProfileNotFound)
}
