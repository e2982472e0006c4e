// Package viewmodel holds the derived state behind the "My Bookings" page.
// State only changes through Reduce; nothing here is global.
package viewmodel

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/format"
)

// BookingRow is one booking as the page renders it
type BookingRow struct {
	models.BookingWithTurf
	TurfDisplayName string `json:"turf_display_name"`
	DateLabel       string `json:"date_label"`
	PriceLabel      string `json:"price_label"`
	CanCancel       bool   `json:"can_cancel"`
}

// NewRow decorates a joined booking with display labels
func NewRow(b models.BookingWithTurf, canCancel bool) BookingRow {
	return BookingRow{
		BookingWithTurf: b,
		TurfDisplayName: b.TurfNameOrDefault(),
		DateLabel:       format.Date(b.BookingDate.Time),
		PriceLabel:      format.Currency(b.TotalPrice),
		CanCancel:       canCancel && b.Status.IsActive(),
	}
}

// BookingsView is the booking list plus its derived counters
type BookingsView struct {
	Bookings    []BookingRow `json:"bookings"`
	ActiveCount int          `json:"active_count"`
}

// Action is a state transition of the bookings view
type Action interface {
	apply(rows []BookingRow) []BookingRow
}

// Loaded replaces the list with freshly fetched rows
type Loaded struct {
	Rows []BookingRow
}

func (a Loaded) apply(_ []BookingRow) []BookingRow {
	return append([]BookingRow(nil), a.Rows...)
}

// Cancelled marks one booking as cancelled
type Cancelled struct {
	ID        uuid.UUID
	UpdatedAt time.Time
}

func (a Cancelled) apply(rows []BookingRow) []BookingRow {
	out := append([]BookingRow(nil), rows...)
	for i := range out {
		if out[i].ID != a.ID {
			continue
		}
		out[i].Status = models.BookingCancelled
		out[i].CanCancel = false
		if !a.UpdatedAt.IsZero() {
			out[i].UpdatedAt = a.UpdatedAt
		}
	}
	return out
}

// Created inserts a new booking, keeping the newest booking date first
type Created struct {
	Row BookingRow
}

func (a Created) apply(rows []BookingRow) []BookingRow {
	out := make([]BookingRow, 0, len(rows)+1)
	for _, r := range rows {
		if r.ID != a.Row.ID {
			out = append(out, r)
		}
	}
	out = append(out, a.Row)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].BookingDate.Before(out[i].BookingDate)
	})
	return out
}

// Reduce returns the view after applying the action. The input view is
// never modified.
func Reduce(view BookingsView, action Action) BookingsView {
	rows := action.apply(view.Bookings)
	if rows == nil {
		rows = []BookingRow{}
	}

	active := 0
	for _, r := range rows {
		if r.Status.IsActive() {
			active++
		}
	}
	return BookingsView{Bookings: rows, ActiveCount: active}
}
