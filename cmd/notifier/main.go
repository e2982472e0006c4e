package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/mailer"
	"github.com/turfspot/turf-booking-backend/internal/metrics"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/notify"
	"github.com/turfspot/turf-booking-backend/pkg/mq"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	consumerCfg := mq.ConsumerConfig{
		URL:      cfg.Notify.AMQPURL,
		Exchange: cfg.Notify.Exchange,
		Queue:    cfg.Notify.Queue,
		Keys:     []string{"booking.*"},
		Prefetch: 16,
		Tag:      "turfspot-notifier",
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := connectWithRetry(ctx, 2*time.Second, logger, func() (*mq.Consumer, error) {
		return mq.NewConsumer(consumerCfg)
	})
	if err != nil {
		logger.Info("Notifier stopped before connecting to RabbitMQ")
		return
	}
	defer consumer.Close()

	w := &worker{
		mailer: mailer.New(cfg.SMTP, logger),
		logger: logger,
	}

	deliveries, err := consumer.Deliveries(ctx)
	if err != nil {
		logger.Fatalf("Failed to start consuming: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"queue":    consumerCfg.Queue,
		"exchange": consumerCfg.Exchange,
		"keys":     consumerCfg.Keys,
	}).Info("Notifier worker started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.run(ctx, deliveries)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Notifier stopped with error: %v", err)
		return
	}
	logger.Info("Notifier worker exited")
}

// connectWithRetry calls dial until it succeeds or ctx is done
func connectWithRetry[T any](ctx context.Context, interval time.Duration, logger logrus.FieldLogger, dial func() (T, error)) (T, error) {
	for {
		conn, err := dial()
		if err == nil {
			return conn, nil
		}
		logger.WithError(err).Warnf("RabbitMQ connect failed, retrying in %s", interval)

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// worker turns booking notification deliveries into emails
type worker struct {
	mailer mailer.Mailer
	logger logrus.FieldLogger
}

func (w *worker) run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acks or drops a single delivery. Nothing is requeued:
// a failed email is logged and counted only.
func (w *worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	log := w.logger.WithField("routing_key", d.RoutingKey)

	kind, ok := notify.KindForRoutingKey(d.RoutingKey)
	if !ok {
		log.Warn("Skipping unknown routing key")
		_ = d.Ack(false)
		return
	}

	var req models.BookingEmailRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		log.WithError(err).Error("Dropping malformed notification")
		_ = d.Nack(false, false)
		return
	}
	req.Type = kind
	if err := req.Validate(); err != nil {
		log.WithError(err).Error("Dropping invalid notification")
		_ = d.Nack(false, false)
		return
	}

	subject, body, err := notify.RenderBookingEmail(req)
	if err != nil {
		log.WithError(err).Error("Dropping notification that failed to render")
		_ = d.Nack(false, false)
		return
	}

	if err := w.mailer.Send(ctx, req.Email, subject, body); err != nil {
		metrics.EmailsRelayed.WithLabelValues("error").Inc()
		log.WithError(err).WithField("booking_id", req.Booking.ID).Error("Failed to send booking email")
		_ = d.Nack(false, false)
		return
	}

	metrics.EmailsRelayed.WithLabelValues("sent").Inc()
	log.WithFields(logrus.Fields{
		"booking_id": req.Booking.ID,
		"to":         req.Email,
	}).Info("Booking email sent")
	_ = d.Ack(false)
}
