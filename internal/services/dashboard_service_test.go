package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

func dashboardBooking(t *testing.T, date string, price int64, status models.BookingStatus, created time.Time) models.BookingWithTurf {
	return models.BookingWithTurf{Booking: models.Booking{
		ID:          uuid.New(),
		UserID:      uuid.MustParse("8f14e45f-ceea-467f-a8c5-1d2f3b4a5c6d"),
		BookingDate: mustDate(t, date),
		StartTime:   "06:00 PM",
		TotalPrice:  decimal.NewFromInt(price),
		Status:      status,
		CreatedAt:   created,
	}}
}

func TestAggregate(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	today := mustDate(t, "2024-06-10")

	bookings := []models.BookingWithTurf{
		dashboardBooking(t, "2024-06-12", 1200, models.BookingConfirmed, base.Add(1*time.Hour)),
		dashboardBooking(t, "2024-06-10", 800, models.BookingPending, base.Add(2*time.Hour)),
		dashboardBooking(t, "2024-06-05", 1000, models.BookingConfirmed, base.Add(3*time.Hour)),
		dashboardBooking(t, "2024-06-15", 5000, models.BookingCancelled, base.Add(4*time.Hour)),
		dashboardBooking(t, "2024-06-20", 1500, models.BookingConfirmed, base.Add(5*time.Hour)),
		dashboardBooking(t, "2024-06-21", 1500, models.BookingConfirmed, base.Add(6*time.Hour)),
	}
	bookings[0].UserName = nullString("rahul")
	bookings[5].UserEmail = nullString("asha@example.com")
	bookings[5].TurfName = nullString("Green Arena")

	stats := Aggregate(bookings, 42, today)

	assert.Equal(t, int64(42), stats.TotalUsers)
	assert.Equal(t, 6, stats.TotalBookings)
	assert.Equal(t, 4, stats.ActiveBookings)
	assert.True(t, decimal.NewFromInt(6000).Equal(stats.TotalRevenue), stats.TotalRevenue.String())
	assert.Equal(t, "₹6,000", stats.RevenueFormatted)

	require.Len(t, stats.RecentBookings, models.RecentBookingLimit)
	newest := stats.RecentBookings[0]
	assert.Equal(t, bookings[5].ID, newest.ID)
	assert.Equal(t, "asha@example.com", newest.UserLabel)
	assert.Equal(t, "Green Arena", newest.TurfName)
	assert.Equal(t, "₹1,500", newest.PriceFormatted)
	assert.Equal(t, "21 Jun 2024", newest.DateLabel)

	oldest := stats.RecentBookings[4]
	assert.Equal(t, bookings[1].ID, oldest.ID)
	assert.Equal(t, "Unknown turf", oldest.TurfName)
	assert.Equal(t, "User 8f14e45f", oldest.UserLabel)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, 0, mustDate(t, "2024-06-10"))

	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.ActiveBookings)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Equal(t, "₹0", stats.RevenueFormatted)
	assert.NotNil(t, stats.RecentBookings)
}

func TestDashboardService_Stats(t *testing.T) {
	bookings := newFakeBookingStore()
	bookings.all = []models.BookingWithTurf{
		dashboardBooking(t, "2024-06-10", 1200, models.BookingConfirmed, time.Now()),
	}
	profiles := newFakeProfileStore()
	profiles.count = 3

	svc := NewDashboardService(bookings, profiles, ist)

	// 23:30 UTC on the 9th is already the 10th in IST
	stats, err := svc.Stats(context.Background(), time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveBookings)

	profiles.countErr = errBackend
	_, err = svc.Stats(context.Background(), time.Now())
	assert.ErrorIs(t, err, errBackend)
}
