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

const turfColumns = `
	id, name, description, location, price_per_hour, capacity, image_url,
	features, rating, review_count, owner_id, created_at, updated_at`

// TurfRepository handles turf database operations
type TurfRepository struct {
	db DB
}

// NewTurfRepository creates a new turf repository
func NewTurfRepository(db DB) *TurfRepository {
	return &TurfRepository{
		db: db,
	}
}

// Create inserts a new turf
func (r *TurfRepository) Create(ctx context.Context, turf *models.Turf) error {
	if turf.ID == uuid.Nil {
		turf.ID = uuid.New()
	}
	now := time.Now()
	turf.CreatedAt = now
	turf.UpdatedAt = now
	if turf.Features == nil {
		turf.Features = []string{}
	}

	query := `
		INSERT INTO turfs (
			id, name, description, location, price_per_hour, capacity,
			image_url, features, rating, review_count, owner_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		turf.ID,
		turf.Name,
		turf.Description,
		turf.Location,
		turf.PricePerHour,
		turf.Capacity,
		turf.ImageURL,
		turf.Features,
		turf.Rating,
		turf.ReviewCount,
		turf.OwnerID,
		turf.CreatedAt,
		turf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create turf: %w", err)
	}

	return nil
}

// Update overwrites the editable columns of a turf
func (r *TurfRepository) Update(ctx context.Context, turf *models.Turf) error {
	turf.UpdatedAt = time.Now()
	if turf.Features == nil {
		turf.Features = []string{}
	}

	query := `
		UPDATE turfs
		SET name = $2, description = $3, location = $4, price_per_hour = $5,
		    capacity = $6, image_url = $7, features = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		turf.ID,
		turf.Name,
		turf.Description,
		turf.Location,
		turf.PricePerHour,
		turf.Capacity,
		turf.ImageURL,
		turf.Features,
		turf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update turf: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTurfNotFound
	}

	return nil
}

// Delete removes a turf. Turfs referenced by bookings cannot be removed.
func (r *TurfRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM turfs WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTurfInUse
		}
		return fmt.Errorf("failed to delete turf: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTurfNotFound
	}

	return nil
}

// GetByID retrieves a turf by id
func (r *TurfRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Turf, error) {
	var turf models.Turf
	query := `SELECT ` + turfColumns + ` FROM turfs WHERE id = $1`

	err := r.db.GetContext(ctx, &turf, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTurfNotFound
		}
		return nil, fmt.Errorf("failed to get turf: %w", err)
	}

	return &turf, nil
}

// List returns turfs matching the filter, best rated first
func (r *TurfRepository) List(ctx context.Context, filter models.TurfFilter) ([]models.Turf, error) {
	var conditions []string
	var args []interface{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR location ILIKE $%d OR COALESCE(description, '') ILIKE $%d)", n, n, n))
	}

	if location := strings.TrimSpace(filter.Location); location != "" {
		args = append(args, "%"+location+"%")
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", len(args)))
	}

	if feature := strings.TrimSpace(filter.Feature); feature != "" {
		args = append(args, feature)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(features) AS f WHERE lower(f) = lower($%d))", len(args)))
	}

	query := `SELECT ` + turfColumns + ` FROM turfs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY rating DESC, name ASC`

	turfs := []models.Turf{}
	if err := r.db.SelectContext(ctx, &turfs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list turfs: %w", err)
	}

	return turfs, nil
}
