package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/internal/viewmodel"
)

// Authenticator is implemented by services.AuthService
type Authenticator interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest, ip string, now time.Time) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.Profile, error)
}

// TurfCatalog is implemented by services.TurfService
type TurfCatalog interface {
	List(ctx context.Context, filter models.TurfFilter) ([]models.Turf, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Turf, error)
	Create(ctx context.Context, req models.TurfRequest, ownerID uuid.UUID) (*models.Turf, error)
	Update(ctx context.Context, id uuid.UUID, req models.TurfRequest) (*models.Turf, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingManager is implemented by services.BookingService
type BookingManager interface {
	Create(ctx context.Context, userID uuid.UUID, email string, turfID uuid.UUID, date models.Date, startTime string, now time.Time) (*viewmodel.BookingRow, error)
	ListForUser(ctx context.Context, userID uuid.UUID, now time.Time) (viewmodel.BookingsView, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID, now time.Time) (*viewmodel.BookingRow, error)
	Slots(ctx context.Context, turfID uuid.UUID, date models.Date, now time.Time) (*models.TurfSlots, error)
}

// AdminReporter is implemented by services.DashboardService
type AdminReporter interface {
	Stats(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	Bookings(ctx context.Context) ([]models.BookingWithTurf, error)
	Users(ctx context.Context) ([]models.Profile, error)
}

// Auditor is implemented by services.AuditService
type Auditor interface {
	LogSignup(ctx context.Context, userID uuid.UUID, email string, meta services.RequestMeta)
	LogLogin(ctx context.Context, userID uuid.UUID, email string, success bool, reason string, meta services.RequestMeta)
	LogBookingCreated(ctx context.Context, userID uuid.UUID, booking *models.Booking, meta services.RequestMeta)
	LogBookingCancelled(ctx context.Context, userID uuid.UUID, booking *models.Booking, meta services.RequestMeta)
	LogTurfChange(ctx context.Context, action string, adminID, turfID uuid.UUID, meta services.RequestMeta)
}
