package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/metrics"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/notify"
)

// Dispatcher sends booking notifications without blocking the caller.
// Failures are logged and counted, never returned and never retried.
type Dispatcher struct {
	notifier notify.Notifier
	timeout  time.Duration
	logger   logrus.FieldLogger
	run      func(func())

	inflight sync.WaitGroup
	pending  atomic.Int64
}

// NewDispatcher creates a dispatcher that delivers on a background goroutine
func NewDispatcher(n notify.Notifier, timeout time.Duration, logger logrus.FieldLogger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		notifier: n,
		timeout:  timeout,
		logger:   logger,
		run:      func(f func()) { go f() },
	}
}

// Notify schedules delivery of a booking email and returns immediately
func (d *Dispatcher) Notify(kind models.NotificationKind, recipient string, summary models.BookingSummary) {
	req := models.BookingEmailRequest{
		Type:    kind,
		Email:   recipient,
		Booking: summary,
	}

	d.inflight.Add(1)
	d.pending.Add(1)
	d.run(func() {
		defer d.inflight.Done()
		defer d.pending.Add(-1)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, req); err != nil {
			metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
			d.logger.WithFields(logrus.Fields{
				"booking_id": summary.ID,
				"kind":       kind,
				"error":      err.Error(),
			}).Error("Failed to send booking notification")
			return
		}
		metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
	})
}

// Drain waits for in-flight notifications until ctx is done. Deliveries
// still running at that point are abandoned and reported in the log.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.WithField("pending", d.pending.Load()).Warn("Abandoning in-flight booking notifications")
		return ctx.Err()
	}
}

// Summarize builds the notification payload for a booking
func Summarize(b *models.Booking, turfName string) models.BookingSummary {
	return models.BookingSummary{
		ID:        b.ID.String(),
		Date:      b.BookingDate.String(),
		StartTime: b.StartTime,
		TurfName:  turfName,
		Price:     b.TotalPrice,
	}
}
