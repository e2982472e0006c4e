package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentBookingLimit is the size of the dashboard's recent bookings slice
const RecentBookingLimit = 5

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalUsers       int64           `json:"total_users"`
	TotalBookings    int             `json:"total_bookings"`
	ActiveBookings   int             `json:"active_bookings"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	RevenueFormatted string          `json:"revenue_formatted"`
	RecentBookings   []RecentBooking `json:"recent_bookings"`
}

// RecentBooking is one row of the dashboard's recent bookings table
type RecentBooking struct {
	ID             uuid.UUID       `json:"id"`
	TurfName       string          `json:"turf_name"`
	UserLabel      string          `json:"user_label"`
	BookingDate    Date            `json:"booking_date"`
	DateLabel      string          `json:"date_label"`
	StartTime      string          `json:"start_time"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	PriceFormatted string          `json:"price_formatted"`
	Status         BookingStatus   `json:"status"`
}
