package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/format"
)

// DashboardService serves the admin dashboard and listings
type DashboardService struct {
	bookings BookingStore
	profiles ProfileStore
	loc      *time.Location
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(bookings BookingStore, profiles ProfileStore, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		bookings: bookings,
		profiles: profiles,
		loc:      loc,
	}
}

// Stats computes the dashboard summary as of now
func (s *DashboardService) Stats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	stats := Aggregate(bookings, users, models.NewDate(now.In(s.loc)))
	return &stats, nil
}

// Bookings returns every booking, newest first
func (s *DashboardService) Bookings(ctx context.Context) ([]models.BookingWithTurf, error) {
	return s.bookings.ListAll(ctx)
}

// Users returns every profile, newest first
func (s *DashboardService) Users(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.List(ctx)
}

// Aggregate derives the dashboard numbers from the full booking list.
// A booking is active when it is not cancelled and falls on or after today.
// Revenue sums every non-cancelled booking.
func Aggregate(bookings []models.BookingWithTurf, userCount int64, today models.Date) models.DashboardStats {
	stats := models.DashboardStats{
		TotalUsers:     userCount,
		TotalBookings:  len(bookings),
		TotalRevenue:   decimal.Zero,
		RecentBookings: []models.RecentBooking{},
	}

	for _, b := range bookings {
		if !b.Status.IsActive() {
			continue
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(b.TotalPrice)
		if !b.BookingDate.Before(today) {
			stats.ActiveBookings++
		}
	}
	stats.RevenueFormatted = format.Currency(stats.TotalRevenue)

	recent := append([]models.BookingWithTurf(nil), bookings...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > models.RecentBookingLimit {
		recent = recent[:models.RecentBookingLimit]
	}

	for i := range recent {
		b := &recent[i]
		stats.RecentBookings = append(stats.RecentBookings, models.RecentBooking{
			ID:             b.ID,
			TurfName:       b.TurfNameOrDefault(),
			UserLabel:      b.UserLabel(),
			BookingDate:    b.BookingDate,
			DateLabel:      format.ShortDate(b.BookingDate.Time),
			StartTime:      b.StartTime,
			TotalPrice:     b.TotalPrice,
			PriceFormatted: format.Currency(b.TotalPrice),
			Status:         b.Status,
		})
	}

	return stats
}
