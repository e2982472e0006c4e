package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/format"
	"github.com/turfspot/turf-booking-backend/pkg/timeslot"
)

var bookingEmailTemplate = template.Must(template.New("booking").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: {{.Accent}};">{{.Heading}}</h2>
  <p>{{.Lead}}</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Booking ID</strong></td><td>{{.ID}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Turf</strong></td><td>{{.TurfName}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Date</strong></td><td>{{.Date}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Time</strong></td><td>{{.Time}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Amount</strong></td><td>{{.Price}}</td></tr>
  </table>
  <p style="color: #6b7280; font-size: 12px;">{{.Footer}}</p>
</body>
</html>`))

type bookingEmailView struct {
	Accent   string
	Heading  string
	Lead     string
	Footer   string
	ID       string
	TurfName string
	Date     string
	Time     string
	Price    string
}

// RenderBookingEmail composes the subject and HTML body for a booking email
func RenderBookingEmail(req models.BookingEmailRequest) (string, string, error) {
	b := req.Booking

	turfName := b.TurfName
	if turfName == "" {
		turfName = "your turf"
	}

	date := b.Date
	if d, err := models.ParseDate(b.Date); err == nil {
		date = format.Date(d.Time)
	}

	slot := b.StartTime
	if end, err := timeslot.EndTime(b.StartTime); err == nil {
		slot = b.StartTime + " - " + end
	}

	view := bookingEmailView{
		ID:       b.ID,
		TurfName: turfName,
		Date:     date,
		Time:     slot,
		Price:    format.Currency(b.Price),
	}

	var subject string
	switch req.Type {
	case models.NotifyConfirmation:
		subject = "Booking Confirmed - " + turfName
		view.Accent = "#16a34a"
		view.Heading = "Your booking is confirmed!"
		view.Lead = "Thanks for booking with TurfSpot. Here are your booking details:"
		view.Footer = "Bookings can be cancelled up to 7 hours before the start time."
	case models.NotifyCancellation:
		subject = "Booking Cancelled - " + turfName
		view.Accent = "#dc2626"
		view.Heading = "Your booking has been cancelled"
		view.Lead = "The following booking has been cancelled:"
		view.Footer = "We hope to see you on the field again soon."
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", req.Type)
	}

	var buf bytes.Buffer
	if err := bookingEmailTemplate.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("failed to render booking email: %w", err)
	}

	return subject, buf.String(), nil
}
