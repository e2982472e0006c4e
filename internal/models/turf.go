package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Turf represents a bookable sports venue
type Turf struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  NullString      `json:"description" db:"description"`
	Location     string          `json:"location" db:"location"`
	PricePerHour decimal.Decimal `json:"price_per_hour" db:"price_per_hour"`
	Capacity     int             `json:"capacity" db:"capacity"`
	ImageURL     NullString      `json:"image_url" db:"image_url"`
	Features     pq.StringArray  `json:"features" db:"features"`
	Rating       decimal.Decimal `json:"rating" db:"rating"`
	ReviewCount  int             `json:"review_count" db:"review_count"`
	OwnerID      uuid.NullUUID   `json:"owner_id" db:"owner_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// HasFeature reports whether the turf lists the feature (case-insensitive)
func (t *Turf) HasFeature(feature string) bool {
	for _, f := range t.Features {
		if strings.EqualFold(f, feature) {
			return true
		}
	}
	return false
}

// TurfFilter narrows the public listing
type TurfFilter struct {
	Search   string `form:"search"`
	Location string `form:"location"`
	Feature  string `form:"feature"`
}

// TurfRequest is the admin create/edit payload. Price and capacity arrive
// from free-text form inputs, so they are kept as json.Number until validated.
type TurfRequest struct {
	Name        string      `json:"name" validate:"required,max=120"`
	Description string      `json:"description" validate:"max=2000"`
	Location    string      `json:"location" validate:"required,max=200"`
	Price       json.Number `json:"price" validate:"required,numeric"`
	Capacity    json.Number `json:"capacity" validate:"required,numeric"`
	ImageURL    string      `json:"image_url" validate:"omitempty,url"`
	Features    []string    `json:"features" validate:"dive,required,max=40"`
}

// SlotAvailability is one hourly cell of a turf's day calendar
type SlotAvailability struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// TurfSlots is the calendar for one turf and date
type TurfSlots struct {
	TurfID       uuid.UUID          `json:"turf_id"`
	Date         Date               `json:"date"`
	PricePerHour decimal.Decimal    `json:"price_per_hour"`
	Slots        []SlotAvailability `json:"slots"`
}
