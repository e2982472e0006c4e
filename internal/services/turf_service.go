package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/validator"
)

// TurfService handles the turf catalogue
type TurfService struct {
	turfs     TurfStore
	validator *validator.Validator
	logger    logrus.FieldLogger
}

// NewTurfService creates a new turf service
func NewTurfService(turfs TurfStore, logger logrus.FieldLogger) *TurfService {
	return &TurfService{
		turfs:     turfs,
		validator: validator.New(),
		logger:    logger,
	}
}

// List returns turfs matching the filter, best rated first
func (s *TurfService) List(ctx context.Context, filter models.TurfFilter) ([]models.Turf, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Feature = strings.TrimSpace(filter.Feature)
	return s.turfs.List(ctx, filter)
}

// Get returns one turf
func (s *TurfService) Get(ctx context.Context, id uuid.UUID) (*models.Turf, error) {
	return s.turfs.GetByID(ctx, id)
}

// Create adds a turf owned by the admin who created it
func (s *TurfService) Create(ctx context.Context, req models.TurfRequest, ownerID uuid.UUID) (*models.Turf, error) {
	turf := &models.Turf{}
	if err := s.apply(turf, req); err != nil {
		return nil, err
	}
	if ownerID != uuid.Nil {
		turf.OwnerID = uuid.NullUUID{UUID: ownerID, Valid: true}
	}

	if err := s.turfs.Create(ctx, turf); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"turf_id": turf.ID,
		"name":    turf.Name,
	}).Info("Turf created")
	return turf, nil
}

// Update replaces the editable fields of a turf. Rating and ownership are kept.
func (s *TurfService) Update(ctx context.Context, id uuid.UUID, req models.TurfRequest) (*models.Turf, error) {
	turf, err := s.turfs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(turf, req); err != nil {
		return nil, err
	}
	if err := s.turfs.Update(ctx, turf); err != nil {
		return nil, err
	}

	s.logger.WithField("turf_id", id).Info("Turf updated")
	return turf, nil
}

// Delete removes a turf. Turfs with bookings are rejected by the store.
func (s *TurfService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.turfs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("turf_id", id).Info("Turf deleted")
	return nil
}

func (s *TurfService) apply(turf *models.Turf, req models.TurfRequest) error {
	if err := s.validator.Validate(req); err != nil {
		var ferrs validator.Errors
		if errors.As(err, &ferrs) && len(ferrs) > 0 {
			return &ValidationError{Field: ferrs[0].Field, Message: ferrs[0].Message}
		}
		return err
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return invalid("price", "price must be a number")
	}
	if price.IsNegative() {
		return invalid("price", "price must not be negative")
	}

	capacity, err := strconv.Atoi(req.Capacity.String())
	if err != nil {
		return invalid("capacity", "capacity must be a whole number")
	}
	if capacity < 1 {
		return invalid("capacity", "capacity must be at least 1")
	}

	turf.Name = strings.TrimSpace(req.Name)
	turf.Location = strings.TrimSpace(req.Location)
	turf.Description = nullString(strings.TrimSpace(req.Description))
	turf.ImageURL = nullString(strings.TrimSpace(req.ImageURL))
	turf.PricePerHour = price
	turf.Capacity = capacity
	turf.Features = normalizeFeatures(req.Features)
	return nil
}

// normalizeFeatures trims entries and drops blanks and case-insensitive duplicates
func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if f == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
