package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

const profileColumns = `
	id, email, username, password_hash, is_admin, last_login_at, created_at, updated_at`

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

// Create inserts a new profile. Emails are stored lower-cased.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (
			id, email, username, password_hash, is_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.Username,
		profile.PasswordHash,
		profile.IsAdmin,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	err := r.db.GetContext(ctx, &profile, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return &profile, nil
}

// GetByID retrieves a profile by id
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// UpdateUsername sets the display name and returns the updated profile
func (r *ProfileRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*models.Profile, error) {
	var profile models.Profile
	query := `
		UPDATE profiles
		SET username = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	err := r.db.GetContext(ctx, &profile, query, id, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update username: %w", err)
	}

	return &profile, nil
}

// UpdateLastLogin stamps the last successful login
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE profiles SET last_login_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// SetAdmin grants or revokes the administrator flag
func (r *ProfileRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	query := `UPDATE profiles SET is_admin = $2, updated_at = NOW() WHERE email = $1`

	result, err := r.db.ExecContext(ctx, query, strings.ToLower(strings.TrimSpace(email)), isAdmin)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// List returns all profiles, newest first
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`

	profiles := []models.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// Count returns the number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
