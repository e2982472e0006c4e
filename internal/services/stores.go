package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

// TurfStore is implemented by database.TurfRepository
type TurfStore interface {
	Create(ctx context.Context, turf *models.Turf) error
	Update(ctx context.Context, turf *models.Turf) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Turf, error)
	List(ctx context.Context, filter models.TurfFilter) ([]models.Turf, error)
}

// BookingStore is implemented by database.BookingRepository
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetWithTurf(ctx context.Context, id uuid.UUID) (*models.BookingWithTurf, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BookingWithTurf, error)
	ListAll(ctx context.Context) ([]models.BookingWithTurf, error)
	BookedSlots(ctx context.Context, turfID uuid.UUID, date models.Date) ([]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (time.Time, error)
}

// ProfileStore is implemented by database.ProfileRepository
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
}

// LoginAttemptStore is implemented by database.LoginAttemptRepository
type LoginAttemptStore interface {
	Record(ctx context.Context, email, ip string, success bool) error
	FailuresSince(ctx context.Context, email string, since time.Time) (int, time.Time, error)
}

// AuditStore is implemented by database.AuditRepository
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

// BookingNotifier is implemented by Dispatcher
type BookingNotifier interface {
	Notify(kind models.NotificationKind, recipient string, summary models.BookingSummary)
}
