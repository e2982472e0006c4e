// Package notify delivers booking confirmation and cancellation emails.
//
// Three transports are available: LogNotifier for development,
// FunctionNotifier which calls the send-booking-email HTTP function, and
// QueueNotifier which hands the payload to the notifier worker over RabbitMQ.
package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

// Routing keys published to the booking exchange
const (
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"
)

// Notifier delivers a booking email request
type Notifier interface {
	Notify(ctx context.Context, req models.BookingEmailRequest) error
}

// RoutingKey maps a notification kind to its routing key
func RoutingKey(kind models.NotificationKind) (string, error) {
	switch kind {
	case models.NotifyConfirmation:
		return RKBookingConfirmed, nil
	case models.NotifyCancellation:
		return RKBookingCancelled, nil
	}
	return "", fmt.Errorf("unknown notification kind %q", kind)
}

// KindForRoutingKey is the inverse of RoutingKey
func KindForRoutingKey(key string) (models.NotificationKind, bool) {
	switch key {
	case RKBookingConfirmed:
		return models.NotifyConfirmation, true
	case RKBookingCancelled:
		return models.NotifyCancellation, true
	}
	return "", false
}

// LogNotifier renders the email and logs it instead of sending
type LogNotifier struct {
	logger logrus.FieldLogger
}

// NewLogNotifier creates a logging notifier
func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(_ context.Context, req models.BookingEmailRequest) error {
	subject, _, err := RenderBookingEmail(req)
	if err != nil {
		return err
	}
	n.logger.WithFields(logrus.Fields{
		"kind":       req.Type,
		"email":      req.Email,
		"booking_id": req.Booking.ID,
		"subject":    subject,
	}).Info("📧 [DEV] Booking email")
	return nil
}

// New builds the notifier selected by NOTIFY_MODE. The returned close
// function releases the queue connection when one was opened.
func New(cfg config.NotifyConfig, logger logrus.FieldLogger) (Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Mode {
	case "function":
		return NewFunctionNotifier(cfg.FunctionURL, cfg.Timeout), noop, nil
	case "queue":
		q, err := DialQueueNotifier(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return nil, noop, err
		}
		return q, q.Close, nil
	default:
		return NewLogNotifier(logger), noop, nil
	}
}
