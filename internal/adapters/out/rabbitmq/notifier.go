// Package rabbitmq publishes notifications to a durable topic exchange.
//
// Routing keys are "user.<recipient id>.<event>" for notifications addressed to one user
// and "managers.<event>" for the manager audience, so consumers can bind with
// "user.<id>.#" or "managers.#".
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"auctiondelivery/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "auction.notifications"

	publishTimeout = 5 * time.Second
)

var _ ports.Notifier = &Notifier{}

// Publisher is the part of *amqp.Channel the notifier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool,
		msg amqp.Publishing) error
}

type envelope struct {
	Event       string         `json:"event"`
	Audience    string         `json:"audience"`
	RecipientID string         `json:"recipient_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	SentAt      time.Time      `json:"sent_at"`
}

// Notifier implements ports.Notifier. Publish failures are logged and dropped.
type Notifier struct {
	mu       sync.Mutex
	pub      Publisher
	exchange string
	logger   *slog.Logger
	now      func() time.Time
}

func NewNotifier(pub Publisher, exchange string, logger *slog.Logger) *Notifier {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		pub:      pub,
		exchange: exchange,
		logger:   logger.With("component", "rabbitmq_notifier"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Notify publishes each notification. A nil publisher degrades to logging.
func (n *Notifier) Notify(ctx context.Context, notifications ...ports.Notification) {
	for _, notification := range notifications {
		key := RoutingKey(notification)
		if n.pub == nil {
			n.logger.InfoContext(ctx, "notification", "routing_key", key, "payload", notification.Payload)
			continue
		}

		if err := n.publish(ctx, key, notification); err != nil {
			n.logger.ErrorContext(ctx, "failed to publish notification",
				"routing_key", key, "error", err)
		}
	}
}

func (n *Notifier) publish(ctx context.Context, key string, notification ports.Notification) error {
	msg := envelope{
		Event:    notification.Event,
		Audience: string(notification.Audience),
		Payload:  notification.Payload,
		SentAt:   n.now(),
	}
	if notification.RecipientID != nil {
		msg.RecipientID = notification.RecipientID.String()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pub.PublishWithContext(ctx, n.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.SentAt,
		Body:         body,
	})
}

// RoutingKey derives the topic routing key of a notification.
func RoutingKey(notification ports.Notification) string {
	if notification.Audience == ports.AudienceManagers || notification.RecipientID == nil {
		return "managers." + notification.Event
	}
	return fmt.Sprintf("user.%s.%s", notification.RecipientID.String(), notification.Event)
}
