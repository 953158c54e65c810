package rabbitmq_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"auctiondelivery/internal/adapters/out/rabbitmq"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	err  error
	sent []published
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool,
	msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestRoutingKey(t *testing.T) {
	id := kernel.NewUUID()

	tests := []struct {
		name         string
		notification ports.Notification
		want         string
	}{
		{
			name:         "user notification",
			notification: ports.Notification{Audience: ports.AudienceUser, RecipientID: &id, Event: "bid_won"},
			want:         "user." + id.String() + ".bid_won",
		},
		{
			name:         "manager notification",
			notification: ports.Notification{Audience: ports.AudienceManagers, Event: "employee_recommendation"},
			want:         "managers.employee_recommendation",
		},
		{
			name:         "user notification without recipient goes to managers",
			notification: ports.Notification{Audience: ports.AudienceUser, Event: "orphan"},
			want:         "managers.orphan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rabbitmq.RoutingKey(tt.notification))
		})
	}
}

func TestNotifier_PublishesPersistentJSON(t *testing.T) {
	// Arrange
	pub := &fakePublisher{}
	notifier := rabbitmq.NewNotifier(pub, "", nil)
	recipient := kernel.NewUUID()

	// Act
	notifier.Notify(context.Background(),
		ports.Notification{
			Audience:    ports.AudienceUser,
			RecipientID: &recipient,
			Event:       "bid_won",
			Payload:     map[string]any{"order_id": "o-1"},
		},
		ports.Notification{Audience: ports.AudienceManagers, Event: "ranked_bids_ready"},
	)

	// Assert
	require.Len(t, pub.sent, 2)
	first := pub.sent[0]
	assert.Equal(t, rabbitmq.DefaultExchange, first.exchange)
	assert.Equal(t, "user."+recipient.String()+".bid_won", first.key)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, "application/json", first.msg.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(first.msg.Body, &body))
	assert.Equal(t, "bid_won", body["event"])
	assert.Equal(t, recipient.String(), body["recipient_id"])
	assert.Equal(t, map[string]any{"order_id": "o-1"}, body["payload"])

	assert.Equal(t, "managers.ranked_bids_ready", pub.sent[1].key)
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	// Arrange
	pub := &fakePublisher{err: errors.New("channel closed")}
	notifier := rabbitmq.NewNotifier(pub, "custom", nil)

	// Act & Assert
	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), ports.Notification{Audience: ports.AudienceManagers, Event: "x"})
	})
	assert.Empty(t, pub.sent)
}

func TestNotifier_WithoutPublisherOnlyLogs(t *testing.T) {
	notifier := rabbitmq.NewNotifier(nil, "", nil)

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), ports.Notification{Audience: ports.AudienceManagers, Event: "x"})
	})
}
