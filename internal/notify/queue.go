package notify

import (
	"context"
	"fmt"

	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/mq"
)

// Publisher is the part of mq.Publisher the queue notifier needs
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// QueueNotifier publishes booking emails for the notifier worker
type QueueNotifier struct {
	publisher Publisher
	closer    func() error
}

// NewQueueNotifier wraps an existing publisher
func NewQueueNotifier(p Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: p}
}

// DialQueueNotifier connects to RabbitMQ and declares the exchange
func DialQueueNotifier(url, exchange string) (*QueueNotifier, error) {
	p, err := mq.NewPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return &QueueNotifier{publisher: p, closer: p.Close}, nil
}

// Notify implements Notifier
func (n *QueueNotifier) Notify(ctx context.Context, req models.BookingEmailRequest) error {
	key, err := RoutingKey(req.Type)
	if err != nil {
		return err
	}
	if err := n.publisher.PublishJSON(ctx, key, req); err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection, if owned
func (n *QueueNotifier) Close() error {
	if n.closer != nil {
		return n.closer()
	}
	return nil
}
